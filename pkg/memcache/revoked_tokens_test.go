package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokedTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewRevokedTokens()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "jti-1", now.Add(time.Minute)))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries lapse with the token")
	assert.Equal(t, 0, store.Len())
}

func TestRevokedTokens_SkipsExpired(t *testing.T) {
	store := NewRevokedTokens()
	require.NoError(t, store.Revoke(context.Background(), "old", time.Now().Add(-time.Second)))
	assert.Equal(t, 0, store.Len())
}

func TestRevokedTokens_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewRevokedTokens()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Second)))
	now = now.Add(5 * time.Second)
	require.NoError(t, store.Revoke(ctx, "b", now.Add(time.Hour)))

	assert.Equal(t, 1, store.Len())
}
