package model

import (
	"database/sql"
	"time"
)

type User struct {
	ID           string         `db:"id" json:"id"`
	Username     string         `db:"username" json:"username"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         sql.NullString `db:"name" json:"name,omitempty"`
	Bio          sql.NullString `db:"bio" json:"bio,omitempty"`
	AvatarURL    sql.NullString `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// GetName returns name or username as fallback
func (u *User) GetName() string {
	if u.Name.Valid && u.Name.String != "" {
		return u.Name.String
	}
	return u.Username
}

// GetAvatarURL returns avatar_url or empty string
func (u *User) GetAvatarURL() string {
	if u.AvatarURL.Valid {
		return u.AvatarURL.String
	}
	return ""
}

// GetBio returns bio or empty string
func (u *User) GetBio() string {
	if u.Bio.Valid {
		return u.Bio.String
	}
	return ""
}

// OwnerUserID makes a user the owner of its own profile.
func (u *User) OwnerUserID() string {
	return u.ID
}

// Participant is a user listed in a room's participant set.
type Participant struct {
	ID        string         `db:"id"`
	Username  string         `db:"username"`
	Name      sql.NullString `db:"name"`
	AvatarURL sql.NullString `db:"avatar_url"`
	JoinedAt  time.Time      `db:"joined_at"`
}

func (p *Participant) GetName() string {
	if p.Name.Valid && p.Name.String != "" {
		return p.Name.String
	}
	return p.Username
}

func (p *Participant) GetAvatarURL() string {
	if p.AvatarURL.Valid {
		return p.AvatarURL.String
	}
	return ""
}
