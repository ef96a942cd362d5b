package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpoint/schoolgate/internal/ports"
	"github.com/classpoint/schoolgate/internal/testutil"
)

func setupCache(t *testing.T) *CredentialCache {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	cache := NewCredentialCacheWithKey(client, "schoolgate-test:session")
	t.Cleanup(func() {
		_ = cache.Clear(context.Background())
	})
	return cache
}

func TestCredentialCache_SaveAndLoad(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	rec := ports.CacheRecord{
		Token:    "tok-1",
		Identity: []byte(`{"id":"u-1","role":"teacher"}`),
		Expiry:   "2026-04-01T00:00:00Z",
	}
	require.NoError(t, cache.Save(ctx, rec))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.Token, got.Token)
	assert.JSONEq(t, string(rec.Identity), string(got.Identity))
	assert.Equal(t, rec.Expiry, got.Expiry)
}

func TestCredentialCache_LoadEmpty(t *testing.T) {
	cache := setupCache(t)

	_, err := cache.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestCredentialCache_Clear(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	rec := ports.CacheRecord{Token: "tok-1", Identity: []byte(`{"id":"u-1"}`)}
	require.NoError(t, cache.Save(ctx, rec))
	require.NoError(t, cache.Clear(ctx))

	_, err := cache.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestCredentialCache_CorruptRecordDiscarded(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	// Simulate a partial write: token present, identity missing.
	require.NoError(t, cache.client.HSet(ctx, cache.key, fieldToken, "tok-1").Err())

	_, err := cache.Load(ctx)
	require.ErrorIs(t, err, ports.ErrNoSession)

	exists, err := cache.client.Exists(ctx, cache.key).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "corrupt record must be deleted, not hidden")
}
