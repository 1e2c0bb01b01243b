package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	_ RateLimiter = (*RedisRateLimiter)(nil)
	_ Pinger      = (*RedisRateLimiter)(nil)
)

const rateLimitKeyPrefix = "ratelimit:"

type RedisConfig struct {
	Client *redis.Client
}

// RedisRateLimiter shares a sliding-window limit across every instance.
type RedisRateLimiter struct {
	client *redis.Client
	window slidingWindow
}

// NewRedisRateLimiter admits burst requests per burst/ratePerSec seconds, the
// same long-run rate and burst as MemoryRateLimiter.
func NewRedisRateLimiter(cfg RedisConfig, ratePerSec float64, burst int) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: cfg.Client,
		window: newSlidingWindow(ratePerSec, burst),
	}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	result, err := r.window.run(ctx, r.client, rateLimitKeyPrefix+key)
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	return result, nil
}

func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
