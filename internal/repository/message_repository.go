package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-demo/forum/internal/model"
	"github.com/jmoiron/sqlx"
)

var ErrMessageNotFound = errors.New("message not found")

const messageWithUserSelect = `
		SELECT m.id, m.room_id, m.user_id, m.body, m.created_at, m.updated_at,
			u.username, u.name AS user_name, u.avatar_url,
			r.name AS room_name
		FROM messages m
		INNER JOIN users u ON u.id = m.user_id
		INNER JOIN rooms r ON r.id = m.room_id`

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (room_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		msg.RoomID,
		msg.UserID,
		msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	query := `SELECT id, room_id, user_id, body, created_at, updated_at FROM messages WHERE id = $1`

	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message by id: %w", err)
	}

	return &msg, nil
}

// UpdateBody replaces a message body
func (r *MessageRepository) UpdateBody(ctx context.Context, msg *model.Message) error {
	query := `
		UPDATE messages
		SET body = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := r.db.QueryRowxContext(ctx, query, msg.ID, msg.Body).Scan(&msg.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to update message: %w", err)
	}

	return nil
}

// Delete deletes a message
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// ListByRoom lists a room's messages in creation order
func (r *MessageRepository) ListByRoom(ctx context.Context, roomID string) ([]*model.MessageWithUser, error) {
	query := messageWithUserSelect + `
		WHERE m.room_id = $1
		ORDER BY m.created_at ASC`

	messages := []*model.MessageWithUser{}
	if err := r.db.SelectContext(ctx, &messages, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to list messages by room: %w", err)
	}

	return messages, nil
}

// ListByUser lists messages written by a user, newest first
func (r *MessageRepository) ListByUser(ctx context.Context, userID string) ([]*model.MessageWithUser, error) {
	query := messageWithUserSelect + `
		WHERE m.user_id = $1
		ORDER BY m.updated_at DESC, m.created_at DESC`

	messages := []*model.MessageWithUser{}
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list messages by user: %w", err)
	}

	return messages, nil
}

// ListByTopicQuery lists messages whose room's topic name contains q, newest first
func (r *MessageRepository) ListByTopicQuery(ctx context.Context, q string) ([]*model.MessageWithUser, error) {
	query := messageWithUserSelect + `
		INNER JOIN topics t ON t.id = r.topic_id
		WHERE t.name ILIKE $1
		ORDER BY m.updated_at DESC, m.created_at DESC`

	messages := []*model.MessageWithUser{}
	if err := r.db.SelectContext(ctx, &messages, query, likePattern(q)); err != nil {
		return nil, fmt.Errorf("failed to list messages by topic: %w", err)
	}

	return messages, nil
}
