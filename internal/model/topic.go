package model

import "time"

// Topic is a named category shared across rooms. Names are unique.
type Topic struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TopicWithRoomCount is a topic row for the sidebar listings.
type TopicWithRoomCount struct {
	Topic
	RoomCount int `db:"room_count" json:"room_count"`
}
