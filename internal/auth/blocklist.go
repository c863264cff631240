package auth

import (
	"context"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/config"

	"github.com/patrickmn/go-cache"
)

// Blocklist records access tokens revoked by logout, keyed by jti.
type Blocklist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryBlocklist keeps revocations in process memory. A revocation lives
// as long as the token it blocks, so the cache never outgrows the set of
// still-valid tokens.
type MemoryBlocklist struct {
	revoked *cache.Cache
}

// NewMemoryBlocklist sizes the default TTL to the access token lifetime.
func NewMemoryBlocklist(cfg *config.Config) *MemoryBlocklist {
	return &MemoryBlocklist{revoked: cache.New(cfg.JWTAccessTokenExpiry, 10*time.Minute)}
}

// Revoke is a no-op for tokens that have already expired.
func (b *MemoryBlocklist) Revoke(_ context.Context, jti string, until time.Time) error {
	if ttl := time.Until(until); ttl > 0 {
		b.revoked.Set(jti, struct{}{}, ttl)
	}
	return nil
}

func (b *MemoryBlocklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, revoked := b.revoked.Get(jti)
	return revoked, nil
}

// Len reports how many revocations are currently held.
func (b *MemoryBlocklist) Len() int {
	return b.revoked.ItemCount()
}
