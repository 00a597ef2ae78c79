package contract

import (
	"context"
	"time"
)

// TokenRevocationRepository remembers access tokens that were logged out before they expired.
// Keys are token fingerprints, never raw tokens.
type TokenRevocationRepository interface {
	Revoke(ctx context.Context, fingerprint string, ttl time.Duration) error
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)
}
