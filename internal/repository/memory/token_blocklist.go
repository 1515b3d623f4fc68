package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// TokenBlocklist keeps revoked token ids in process memory. Entries expire
// together with the token they block.
type TokenBlocklist struct {
	cache *cache.Cache
}

func NewTokenBlocklist() *TokenBlocklist {
	// purge expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TokenBlocklist{
		cache: c,
	}
}

func (r *TokenBlocklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(jti, struct{}{}, ttl)
	return nil
}

func (r *TokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, found := r.cache.Get(jti)
	return found, nil
}
