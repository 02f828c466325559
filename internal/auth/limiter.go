package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per key (the username).
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewLoginLimiter returns a sliding-window limiter allowing perMinute attempts.
// A nil client or a non-positive limit disables throttling.
func NewLoginLimiter(client *redis.Client, perMinute int) LoginLimiter {
	if client == nil || perMinute <= 0 {
		return nopLimiter{}
	}
	return &RedisLoginLimiter{client: client, limit: perMinute, window: time.Minute}
}

// RedisLoginLimiter keeps one sorted set per key scored by attempt time.
type RedisLoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := "ratelimit:login:" + key
	windowStart := now.Add(-l.window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, l.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute pipeline: %w", err)
	}
	return zcard.Val() < int64(l.limit), nil
}

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
