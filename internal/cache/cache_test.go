package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griefbot/memeforge/internal/cache"
)

type catalog struct {
	Names []string `json:"names"`
}

func newTestCache(t *testing.T, ttl time.Duration) (
	*cache.Templates, *miniredis.Miniredis,
) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewTemplates(client, ttl), server
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	var out catalog
	assert.False(t, c.Get(ctx, &out), "empty cache must miss")

	c.Put(ctx, &catalog{Names: []string{"drake", "distracted"}})

	require.True(t, c.Get(ctx, &out))
	assert.Equal(t, []string{"drake", "distracted"}, out.Names)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, server := newTestCache(t, time.Minute)

	c.Put(ctx, &catalog{Names: []string{"drake"}})
	server.FastForward(2 * time.Minute)

	var out catalog
	assert.False(t, c.Get(ctx, &out), "expired entry must miss")
}

func TestCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, server := newTestCache(t, time.Minute)

	require.NoError(t, server.Set("memeforge:templates", "not json"))

	var out catalog
	assert.False(t, c.Get(ctx, &out))
}

func TestCacheServerDown(t *testing.T) {
	ctx := context.Background()
	c, server := newTestCache(t, time.Minute)

	c.Put(ctx, &catalog{Names: []string{"drake"}})
	server.Close()

	var out catalog
	assert.False(t, c.Get(ctx, &out), "outage must degrade to a miss")
	c.Put(ctx, &catalog{Names: []string{"ignored"}})
}

func TestCacheNilSafe(t *testing.T) {
	ctx := context.Background()
	var c *cache.Templates

	var out catalog
	assert.False(t, c.Get(ctx, &out))
	c.Put(ctx, &catalog{})
}
