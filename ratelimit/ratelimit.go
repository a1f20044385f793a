// Package ratelimit provides the counter behind per-user creation quotas.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter increments a counter and returns the post-increment value; the
// caller compares it against its own limit.
type Limiter interface {
	IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisLimiter counts in Redis; the key expires after ttl so windows reset
// on their own.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

func (l *RedisLimiter) IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if l.rdb == nil {
		return 0, redis.ErrClosed
	}
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 && ttl > 0 {
		l.rdb.Expire(ctx, key, ttl)
	}
	return count, nil
}

// Connect creates a Redis client from a URL and verifies connectivity.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The client is returned even when the ping fails; callers treat the
	// error as degraded, not fatal.
	return rdb, rdb.Ping(ctx).Err()
}
