package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-demo/forum/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", cfg.GetAddr()),
		zap.Int("db", cfg.DB),
	)

	return client, nil
}

// Close closes the Redis connection
func Close(client *redis.Client, logger *zap.Logger) {
	if err := client.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	} else {
		logger.Info("Redis connection closed")
	}
}

// Keys
const (
	KeyRevokedSession = "session:revoked:%s" // session:revoked:{tokenID}
	KeyRateLimit      = "ratelimit:%s"       // ratelimit:{scope}:{ip}
)

// SessionStore tracks revoked session token ids until they would have expired anyway.
type SessionStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewSessionStore(client *redis.Client, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		logger: logger,
	}
}

// Revoke marks tokenID as revoked. A non-positive ttl means the token is
// already expired and nothing is stored.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, fmt.Sprintf(KeyRevokedSession, tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked
func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, fmt.Sprintf(KeyRevokedSession, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}
