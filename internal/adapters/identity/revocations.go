package identity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/domain/providers"
)

const revokedKeyPrefix = "auth:revoked:"

// Revocations records signed-out token ids until they expire. Every revocation
// is kept locally; Redis, when available, shares it with other instances.
type Revocations struct {
	cache providers.CacheProvider
	now   func() time.Time

	mu    sync.Mutex
	local map[string]time.Time
}

// NewRevocations creates a revocation list; cache may be nil
func NewRevocations(cache providers.CacheProvider) *Revocations {
	return &Revocations{
		cache: cache,
		now:   time.Now,
		local: make(map[string]time.Time),
	}
}

// Revoke marks a token id as revoked until the token's expiry
func (r *Revocations) Revoke(ctx context.Context, tokenID string, until time.Time) {
	ttl := int(until.Sub(r.now()).Seconds()) + 1
	if ttl <= 0 {
		return
	}

	r.mu.Lock()
	r.local[tokenID] = until
	r.mu.Unlock()

	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, revokedKeyPrefix+tokenID, []byte("1"), ttl); err != nil {
		log.Warn().Err(err).Str("token_id", tokenID).Msg("failed to share token revocation through cache")
	}
}

// IsRevoked reports whether a token id has been revoked
func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) bool {
	if r.isRevokedLocally(tokenID) {
		return true
	}
	if r.cache == nil {
		return false
	}
	revoked, err := r.cache.Exists(ctx, revokedKeyPrefix+tokenID)
	if err != nil {
		log.Warn().Err(err).Str("token_id", tokenID).Msg("failed to check token revocation in cache")
		return false
	}
	return revoked
}

func (r *Revocations) isRevokedLocally(tokenID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, until := range r.local {
		if now.After(until) {
			delete(r.local, id)
		}
	}
	_, ok := r.local[tokenID]
	return ok
}
