package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:" // auth:revoked:{jti}

// Revocations is a deny-list of token IDs kept in Redis until the token
// would have expired anyway.
type Revocations struct {
	client *redis.Client
	now    func() time.Time
}

func NewRevocations(client *redis.Client) *Revocations {
	return &Revocations{client: client, now: time.Now}
}

// Revoke denies the token until its expiry. Already-expired tokens are
// ignored.
func (r *Revocations) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return fmt.Errorf("token has no expiry")
	}
	ttl := claims.ExpiresAt.Time.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+claims.ID, claims.Subject, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return true, nil
}
