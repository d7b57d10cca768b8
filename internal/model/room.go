package model

import (
	"database/sql"
	"time"
)

type Room struct {
	ID          string         `db:"id" json:"id"`
	TopicID     string         `db:"topic_id" json:"topic_id"`
	OwnerID     string         `db:"owner_id" json:"owner_id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// GetDescription returns description or empty string
func (r *Room) GetDescription() string {
	if r.Description.Valid {
		return r.Description.String
	}
	return ""
}

func (r *Room) OwnerUserID() string {
	return r.OwnerID
}

// RoomDetail includes topic, owner info and participant count
type RoomDetail struct {
	Room
	TopicName        string         `db:"topic_name" json:"topic_name"`
	OwnerUsername    string         `db:"owner_username" json:"owner_username"`
	OwnerName        sql.NullString `db:"owner_name" json:"owner_name,omitempty"`
	OwnerAvatarURL   sql.NullString `db:"owner_avatar_url" json:"owner_avatar_url,omitempty"`
	ParticipantCount int            `db:"participant_count" json:"participant_count"`
}

// GetOwnerName returns the owner's name or username
func (r *RoomDetail) GetOwnerName() string {
	if r.OwnerName.Valid && r.OwnerName.String != "" {
		return r.OwnerName.String
	}
	return r.OwnerUsername
}

func (r *RoomDetail) GetOwnerAvatarURL() string {
	if r.OwnerAvatarURL.Valid {
		return r.OwnerAvatarURL.String
	}
	return ""
}
