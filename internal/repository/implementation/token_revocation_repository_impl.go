package implementation

import (
	"context"
	"fmt"
	"time"

	"smart-notes-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RedisTokenRevocationRepository keeps revoked token fingerprints in Redis until the
// token would have expired anyway.
type RedisTokenRevocationRepository struct {
	client *redis.Client
}

func NewRedisTokenRevocationRepository(client *redis.Client) contract.TokenRevocationRepository {
	return &RedisTokenRevocationRepository{client: client}
}

func (r *RedisTokenRevocationRepository) Revoke(ctx context.Context, fingerprint string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+fingerprint, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token in redis: %w", err)
	}
	return nil
}

func (r *RedisTokenRevocationRepository) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+fingerprint).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
