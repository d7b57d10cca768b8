package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-demo/forum/internal/model"
	"github.com/jmoiron/sqlx"
)

var ErrRoomNotFound = errors.New("room not found")

// roomDetailSelect joins a room with its topic, owner and participant count.
const roomDetailSelect = `
		SELECT r.id, r.topic_id, r.owner_id, r.name, r.description, r.created_at, r.updated_at,
			t.name AS topic_name,
			u.username AS owner_username, u.name AS owner_name, u.avatar_url AS owner_avatar_url,
			(SELECT COUNT(*) FROM room_participants rp WHERE rp.room_id = r.id) AS participant_count
		FROM rooms r
		INNER JOIN topics t ON t.id = r.topic_id
		INNER JOIN users u ON u.id = r.owner_id`

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create creates a new room
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (topic_id, owner_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		room.TopicID,
		room.OwnerID,
		room.Name,
		room.Description,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID retrieves a room by ID with topic and owner info
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*model.RoomDetail, error) {
	var room model.RoomDetail
	query := roomDetailSelect + ` WHERE r.id = $1`

	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	return &room, nil
}

// Update overwrites topic, name and description
func (r *RoomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET topic_id = $2, name = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		room.ID,
		room.TopicID,
		room.Name,
		room.Description,
	).Scan(&room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

// Delete deletes a room; messages and participants cascade
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM rooms WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRoomNotFound
	}

	return nil
}

// Search lists rooms whose topic name, name or description contains q,
// ignoring case, most recently updated first
func (r *RoomRepository) Search(ctx context.Context, q string) ([]*model.RoomDetail, error) {
	query := roomDetailSelect + `
		WHERE t.name ILIKE $1 OR r.name ILIKE $1 OR r.description ILIKE $1
		ORDER BY r.updated_at DESC, r.created_at DESC`

	rooms := []*model.RoomDetail{}
	if err := r.db.SelectContext(ctx, &rooms, query, likePattern(q)); err != nil {
		return nil, fmt.Errorf("failed to search rooms: %w", err)
	}

	return rooms, nil
}

// ListByOwner lists rooms owned by a user
func (r *RoomRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.RoomDetail, error) {
	query := roomDetailSelect + `
		WHERE r.owner_id = $1
		ORDER BY r.updated_at DESC, r.created_at DESC`

	rooms := []*model.RoomDetail{}
	if err := r.db.SelectContext(ctx, &rooms, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list rooms by owner: %w", err)
	}

	return rooms, nil
}

// AddParticipant adds a user to a room's participants. Adding twice is a no-op.
func (r *RoomRepository) AddParticipant(ctx context.Context, roomID, userID string) error {
	query := `
		INSERT INTO room_participants (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (room_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, roomID, userID); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

// ListParticipants lists a room's participants in join order
func (r *RoomRepository) ListParticipants(ctx context.Context, roomID string) ([]*model.Participant, error) {
	query := `
		SELECT u.id, u.username, u.name, u.avatar_url, rp.joined_at
		FROM room_participants rp
		INNER JOIN users u ON u.id = rp.user_id
		WHERE rp.room_id = $1
		ORDER BY rp.joined_at`

	participants := []*model.Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}
