package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeUntilExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	tokens := NewTokens("secret", 10*time.Minute)
	revocations := NewRevocations(rdb)

	_, claims, err := tokens.Issue("user-1")
	require.NoError(t, err)

	revoked, err := revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revocations.Revoke(ctx, claims))
	revoked, err = revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL(revokedKeyPrefix + claims.ID)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)

	mr.FastForward(11 * time.Minute)
	revoked, err = revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens := NewTokens("secret", time.Minute)
	_, claims, err := tokens.Issue("user-1")
	require.NoError(t, err)

	revocations := NewRevocations(rdb)
	revocations.now = func() time.Time { return time.Now().Add(time.Hour) }

	require.NoError(t, revocations.Revoke(context.Background(), claims))
	assert.False(t, mr.Exists(revokedKeyPrefix+claims.ID))
}

func TestRevocationStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, err := NewRevocations(rdb).IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}
