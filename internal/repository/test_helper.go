package repository

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-demo/forum/internal/model"
	"github.com/go-demo/forum/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultTestDSN = "host=localhost port=5432 user=postgres password=postgres dbname=forum_test sslmode=disable"

var testCounter int64

// GenerateUniquePrefix returns a prefix unique to one test so parallel
// runs never touch each other's rows.
func GenerateUniquePrefix() string {
	count := atomic.AddInt64(&testCounter, 1)
	return uuid.New().String()[:8] + "_" + time.Now().Format("150405") + "_" + string(rune(count%26+'a'))
}

// SetupIsolatedTestDB connects to the test database and applies migrations.
// The test is skipped when no database is reachable.
func SetupIsolatedTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()

	dsn := os.Getenv("FORUM_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test, could not connect to test database: %v", err)
	}

	if err := database.Migrate(db, zap.NewNop()); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db, GenerateUniquePrefix()
}

// CleanupTestDataByPrefix removes rows created under prefix.
// Rooms, messages and participants go with their owners through FK cascades.
func CleanupTestDataByPrefix(t *testing.T, db *sqlx.DB, prefix string) {
	t.Helper()

	ctx := context.Background()

	_, _ = db.ExecContext(ctx, "DELETE FROM users WHERE username LIKE $1", prefix+"%")
	_, _ = db.ExecContext(ctx, "DELETE FROM topics WHERE name LIKE $1 AND NOT EXISTS (SELECT 1 FROM rooms WHERE rooms.topic_id = topics.id)", prefix+"%")
}

// CreateIsolatedTestUser creates a user whose username starts with prefix
func CreateIsolatedTestUser(t *testing.T, db *sqlx.DB, prefix, name string) *model.User {
	t.Helper()

	userRepo := NewUserRepository(db)
	username := prefix + "_" + name
	user := &model.User{
		Username:     username,
		Email:        username + "@test.example.com",
		PasswordHash: "hashedpassword",
	}

	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateIsolatedTestTopic creates (or reuses) a topic whose name starts with prefix
func CreateIsolatedTestTopic(t *testing.T, db *sqlx.DB, prefix, name string) *model.Topic {
	t.Helper()

	topic, _, err := NewTopicRepository(db).GetOrCreate(context.Background(), prefix+"_"+name)
	if err != nil {
		t.Fatalf("Failed to create test topic: %v", err)
	}

	return topic
}

// CreateIsolatedTestRoom creates a room owned by owner under topic
func CreateIsolatedTestRoom(t *testing.T, db *sqlx.DB, prefix string, owner *model.User, topic *model.Topic) *model.Room {
	t.Helper()

	roomRepo := NewRoomRepository(db)
	room := &model.Room{
		TopicID: topic.ID,
		OwnerID: owner.ID,
		Name:    prefix + "_room",
	}

	if err := roomRepo.Create(context.Background(), room); err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return room
}

// CountRoomMessages counts the messages stored for roomID
func CountRoomMessages(t *testing.T, db *sqlx.DB, roomID string) int {
	t.Helper()

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM messages WHERE room_id = $1`, roomID); err != nil {
		t.Fatalf("Failed to count messages: %v", err)
	}
	return count
}

// IsRoomParticipant reports whether userID is in roomID's participant set
func IsRoomParticipant(t *testing.T, db *sqlx.DB, roomID, userID string) bool {
	t.Helper()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM room_participants WHERE room_id = $1 AND user_id = $2)`
	if err := db.Get(&exists, query, roomID, userID); err != nil {
		t.Fatalf("Failed to check participant: %v", err)
	}
	return exists
}
