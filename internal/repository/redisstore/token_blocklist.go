package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:revoked:"

// TokenBlocklist shares revoked token ids across instances.
type TokenBlocklist struct {
	rdb *redis.Client
}

func NewTokenBlocklist(rdb *redis.Client) *TokenBlocklist {
	return &TokenBlocklist{rdb: rdb}
}

func (b *TokenBlocklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, keyPrefix+jti, 1, ttl).Err()
}

func (b *TokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := b.rdb.Get(ctx, keyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
