package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	attemptWindow  = 15 * time.Minute
	attemptCeiling = 10
)

// AttemptLimiter throttles failed sign-in attempts per email+IP.
type AttemptLimiter interface {
	TooMany(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// RedisLimiter counts failures in Redis with a rolling window.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

func (l *RedisLimiter) key(key string) string {
	return fmt.Sprintf("moodnotes:login_attempts:%s", key)
}

func (l *RedisLimiter) TooMany(ctx context.Context, key string) (bool, error) {
	count, err := l.rdb.Get(ctx, l.key(key)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= attemptCeiling, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	k := l.key(key)
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.rdb.Expire(ctx, k, attemptWindow).Err()
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, l.key(key)).Err()
}

// noopLimiter is used when Redis is not configured.
type noopLimiter struct{}

func (noopLimiter) TooMany(context.Context, string) (bool, error) { return false, nil }
func (noopLimiter) RecordFailure(context.Context, string) error   { return nil }
func (noopLimiter) Reset(context.Context, string) error           { return nil }
