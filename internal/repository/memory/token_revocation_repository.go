package memory

import (
	"context"
	"time"

	"smart-notes-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// TokenRevocationRepository is the in-process fallback used when Redis is not reachable.
// Entries vanish with the process, which only shortens how long a logout is enforced
// across restarts.
type TokenRevocationRepository struct {
	cache *cache.Cache
}

func NewTokenRevocationRepository() contract.TokenRevocationRepository {
	// Purge expired fingerprints every 10 minutes
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &TokenRevocationRepository{
		cache: c,
	}
}

func (r *TokenRevocationRepository) Revoke(_ context.Context, fingerprint string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(fingerprint, struct{}{}, ttl)
	return nil
}

func (r *TokenRevocationRepository) IsRevoked(_ context.Context, fingerprint string) (bool, error) {
	_, found := r.cache.Get(fingerprint)
	return found, nil
}
