package model

import (
	"database/sql"
	"time"
)

type Message struct {
	ID        string    `db:"id" json:"id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (m *Message) OwnerUserID() string {
	return m.UserID
}

// MessageWithUser includes author and room info for activity feeds
type MessageWithUser struct {
	Message
	Username  string         `db:"username" json:"username"`
	UserName  sql.NullString `db:"user_name" json:"user_name,omitempty"`
	AvatarURL sql.NullString `db:"avatar_url" json:"avatar_url,omitempty"`
	RoomName  string         `db:"room_name" json:"room_name"`
}

// GetUserName returns the author's name or username
func (m *MessageWithUser) GetUserName() string {
	if m.UserName.Valid && m.UserName.String != "" {
		return m.UserName.String
	}
	return m.Username
}

// GetUserAvatarURL returns avatar_url or empty string
func (m *MessageWithUser) GetUserAvatarURL() string {
	if m.AvatarURL.Valid {
		return m.AvatarURL.String
	}
	return ""
}
