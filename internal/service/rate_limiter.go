package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-cms/auth-service/pkg/database"
)

// RateLimiter throttles credential endpoints using a Redis sliding-window
// log. It is a hardening control, not a correctness requirement: on Redis
// errors callers are expected to fail open.
type RateLimiter struct {
	redis *database.Redis
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow reports whether a request under key is within limit for the window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window)
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0",
		fmt.Sprintf("%d", windowStart.UnixNano())).Err(); err != nil {
		return false, fmt.Errorf("failed to trim rate-limit window: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count rate-limit entries: %w", err)
	}
	if count >= int64(limit) {
		return false, nil
	}

	err = r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	}).Err()
	if err != nil {
		return false, fmt.Errorf("failed to record rate-limit entry: %w", err)
	}

	// Best effort; a missing TTL only delays cleanup.
	_ = r.redis.Client.Expire(ctx, redisKey, window+time.Minute).Err()

	return true, nil
}

// Remaining returns how many requests under key are still allowed in the
// current window.
func (r *RateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	windowStart := time.Now().Add(-window)

	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0",
		fmt.Sprintf("%d", windowStart.UnixNano())).Err(); err != nil {
		return 0, fmt.Errorf("failed to trim rate-limit window: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count rate-limit entries: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
