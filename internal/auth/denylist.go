package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token ids until the token would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NewTokenDenylist returns a Redis-backed denylist, or one that never revokes
// anything when client is nil.
func NewTokenDenylist(client *redis.Client) TokenDenylist {
	if client == nil {
		return nopDenylist{}
	}
	return &RedisTokenDenylist{client: client}
}

// RedisTokenDenylist stores revoked ids as keys expiring with the token.
type RedisTokenDenylist struct {
	client *redis.Client
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKey(tokenID), 1, ttl).Err()
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.client.Get(ctx, denylistKey(tokenID)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, err
}

func denylistKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

type nopDenylist struct{}

func (nopDenylist) Revoke(context.Context, string, time.Time) error  { return nil }
func (nopDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
