package model

// Owned is anything with a single user holding exclusive mutation rights.
type Owned interface {
	OwnerUserID() string
}
