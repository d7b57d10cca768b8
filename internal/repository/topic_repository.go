package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-demo/forum/internal/model"
	"github.com/jmoiron/sqlx"
)

var ErrTopicNotFound = errors.New("topic not found")

type TopicRepository struct {
	db *sqlx.DB
}

func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// List returns every topic with its room count, by name
func (r *TopicRepository) List(ctx context.Context) ([]*model.TopicWithRoomCount, error) {
	return r.Search(ctx, "")
}

// Search returns topics whose name contains q, ignoring case
func (r *TopicRepository) Search(ctx context.Context, q string) ([]*model.TopicWithRoomCount, error) {
	query := `
		SELECT t.id, t.name, t.created_at, COUNT(r.id) AS room_count
		FROM topics t
		LEFT JOIN rooms r ON r.topic_id = t.id
		WHERE t.name ILIKE $1
		GROUP BY t.id
		ORDER BY t.name`

	topics := []*model.TopicWithRoomCount{}
	if err := r.db.SelectContext(ctx, &topics, query, likePattern(q)); err != nil {
		return nil, fmt.Errorf("failed to search topics: %w", err)
	}

	return topics, nil
}

// Count returns the total number of topics
func (r *TopicRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM topics`); err != nil {
		return 0, fmt.Errorf("failed to count topics: %w", err)
	}
	return count, nil
}

// GetByName retrieves a topic by its exact name
func (r *TopicRepository) GetByName(ctx context.Context, name string) (*model.Topic, error) {
	var topic model.Topic
	query := `SELECT id, name, created_at FROM topics WHERE name = $1`

	if err := r.db.GetContext(ctx, &topic, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic by name: %w", err)
	}

	return &topic, nil
}

// GetOrCreate returns the topic named name, creating it if absent.
// created reports whether a new row was inserted.
func (r *TopicRepository) GetOrCreate(ctx context.Context, name string) (*model.Topic, bool, error) {
	query := `
		INSERT INTO topics (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at`

	var topic model.Topic
	err := r.db.QueryRowxContext(ctx, query, name).StructScan(&topic)
	if err == nil {
		return &topic, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create topic: %w", err)
	}

	// Conflict: the row already exists.
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
