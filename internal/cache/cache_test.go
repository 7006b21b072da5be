package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-dev/storefront-api/internal/cache"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T, ttl time.Duration) *cache.Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, ttl)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	var got payload
	ok, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "x", Count: 3}))
	ok, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload{Name: "x", Count: 3}, got)

	require.NoError(t, c.Invalidate(ctx, "k"))
	ok, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNilCacheIsNoop(t *testing.T) {
	t.Parallel()

	var c *cache.Cache
	ctx := context.Background()
	var got payload
	ok, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.SetJSON(ctx, "k", payload{}))
	require.NoError(t, c.Invalidate(ctx, "k"))
}
