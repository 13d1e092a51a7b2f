package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked session-token IDs (jti claims) in Redis so
// that logout invalidates a token before its natural expiry. Entries carry
// a TTL equal to the remaining token life, so the set cleans itself up.
//
// The denylist is optional: with a nil Redis client every token stays valid
// until expiry, which matches the stateless-credential baseline.
type TokenDenylist struct {
	rdb    *redis.Client
	prefix string
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb, prefix: "revoked"}
}

// Enabled reports whether a Redis backend is configured.
func (d *TokenDenylist) Enabled() bool { return d != nil && d.rdb != nil }

// Revoke marks a token id as invalid for the given duration. Durations of
// zero or less mean the token already expired and there is nothing to do.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if !d.Enabled() || jti == "" || ttl <= 0 {
		return nil
	}
	return d.rdb.SetEx(ctx, d.key(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked. Redis failures are
// treated as "not revoked" so an unavailable denylist degrades to the
// stateless behavior instead of locking everyone out.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) bool {
	if !d.Enabled() || jti == "" {
		return false
	}
	n, err := d.rdb.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (d *TokenDenylist) key(jti string) string { return d.prefix + ":" + jti }
