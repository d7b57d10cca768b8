package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/dto/response"
	"github.com/go-demo/forum/internal/pkg/cache"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// limiterSweepInterval is how often idle in-memory buckets are dropped
const limiterSweepInterval = 3 * time.Minute

// InMemoryRateLimiter implements rate limiting using in-memory token bucket.
// Keys whose bucket has refilled completely are evicted on a later call.
type InMemoryRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewInMemoryRateLimiter creates a new in-memory rate limiter
func NewInMemoryRateLimiter(r rate.Limit, burst int) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rate:      r,
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow checks if request is allowed
func (l *InMemoryRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= limiterSweepInterval {
		l.sweep(now)
	}
	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.AllowN(now, 1), nil
}

// sweep drops buckets that have refilled to burst. Callers hold mu.
func (l *InMemoryRateLimiter) sweep(now time.Time) {
	for key, limiter := range l.limiters {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

// RedisRateLimiter implements rate limiting using Redis
type RedisRateLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
}

// NewRedisRateLimiter creates a new Redis rate limiter
func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:   client,
		requests: requests,
		window:   window,
	}
}

// Allow checks if request is allowed using Redis sliding window
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = fmt.Sprintf(cache.KeyRateLimit, key)
	pipe := l.client.Pipeline()

	now := time.Now().UnixNano()
	windowStart := now - l.window.Nanoseconds()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: now,
	})
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	count, err := countCmd.Result()
	if err != nil {
		return false, err
	}

	return count <= int64(l.requests), nil
}

// NewRateLimiter picks the Redis limiter when a client is available and the
// per-process token bucket otherwise.
func NewRateLimiter(client *redis.Client, requests int, window time.Duration) RateLimiter {
	if requests < 1 {
		requests = 1
	}
	if client != nil {
		return NewRedisRateLimiter(client, requests, window)
	}
	return NewInMemoryRateLimiter(rate.Every(window/time.Duration(requests)), requests)
}

// RateLimitConfig represents rate limit configuration
type RateLimitConfig struct {
	Window  time.Duration
	Methods []string // empty means every method
	KeyFunc func(*gin.Context) string
}

func (cfg *RateLimitConfig) applies(method string) bool {
	if len(cfg.Methods) == 0 {
		return true
	}
	for _, m := range cfg.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// RateLimitWithConfig creates a rate limiting middleware with custom configuration
func RateLimitWithConfig(limiter RateLimiter, cfg *RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.applies(c.Request.Method) {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), cfg.KeyFunc(c))
		if err != nil {
			// Fail open: a broken limiter must not take the forum down.
			logger.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			response.ErrorPage(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthRateLimit limits login and signup submissions per client IP
func AuthRateLimit(limiter RateLimiter, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return RateLimitWithConfig(limiter, &RateLimitConfig{
		Window:  window,
		Methods: []string{"POST"},
		KeyFunc: func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		},
	}, logger)
}

// MessageRateLimit limits message posting per user, falling back to client IP
func MessageRateLimit(limiter RateLimiter, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return RateLimitWithConfig(limiter, &RateLimitConfig{
		Window:  window,
		Methods: []string{"POST"},
		KeyFunc: func(c *gin.Context) string {
			if userID := GetUserID(c); userID != "" {
				return "message:" + userID
			}
			return "message:" + c.ClientIP()
		},
	}, logger)
}
