package service

import "github.com/go-demo/forum/internal/model"

// CanMutate reports whether actor may change or delete resource.
// Anonymous actors can never mutate.
func CanMutate(actor *model.User, resource model.Owned) bool {
	if actor == nil || resource == nil {
		return false
	}
	return actor.ID != "" && actor.ID == resource.OwnerUserID()
}
