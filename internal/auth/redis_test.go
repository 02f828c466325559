package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisTokenDenylist(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	denylist := NewTokenDenylist(client)

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(denylistKey("jti-2")))
}

func TestNopDenylist(t *testing.T) {
	denylist := NewTokenDenylist(nil)
	require.NoError(t, denylist.Revoke(context.Background(), "x", time.Now().Add(time.Hour)))
	revoked, err := denylist.IsRevoked(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisLoginLimiter(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	limiter := NewLoginLimiter(client, 3)

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, allowed, "4th attempt should be denied")

	allowed, err = limiter.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, allowed, "keys are independent")
}

func TestLoginLimiter_Disabled(t *testing.T) {
	_, client := newTestRedis(t)
	for _, limiter := range []LoginLimiter{NewLoginLimiter(nil, 3), NewLoginLimiter(client, 0)} {
		for i := 0; i < 10; i++ {
			allowed, err := limiter.Allow(context.Background(), "alice")
			require.NoError(t, err)
			assert.True(t, allowed)
		}
	}
}

func TestRedisLoginLimiter_RedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewLoginLimiter(client, 3)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "alice")
	assert.Error(t, err)
}
