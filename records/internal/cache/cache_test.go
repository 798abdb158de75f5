package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

func newTestCache(t *testing.T) (*TokenCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewWithClient(client, time.Minute), mr
}

func TestTokenCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	resp := &models.ValidateResponse{
		Valid:  true,
		UserID: "user-1",
		Roles:  []string{"operator"},
	}

	require.NoError(t, c.Set(ctx, "some-access-token", resp))

	got, err := c.Get(ctx, "some-access-token")
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestTokenCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "never-stored")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestTokenCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "expiring-token", &models.ValidateResponse{Valid: true, UserID: "u"}))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "expiring-token")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *TokenCache
	ctx := context.Background()

	_, err := c.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Set(ctx, "token", &models.ValidateResponse{Valid: true}))
	assert.NoError(t, c.Close())
}

func TestTokenKeysDoNotStoreRawToken(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "raw-secret-token", &models.ValidateResponse{Valid: true}))

	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "raw-secret-token")
	}
}
