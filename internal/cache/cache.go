// Package cache provides a Redis-backed cache for meme template lookups.
// The cache is an optimization only: a miss or a Redis outage degrades to a
// direct service call and never fails a pipeline run.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Templates caches the template catalog returned by the lookup service
type Templates struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

const defaultKey = "memeforge:templates"

// NewTemplates creates a template cache on the provided Redis client
func NewTemplates(client *redis.Client, ttl time.Duration) *Templates {
	return &Templates{
		client: client,
		key:    defaultKey,
		ttl:    ttl,
	}
}

// Get retrieves the cached catalog, decoding it into out. Returns false on
// a miss, a decode failure, or any Redis error
func (t *Templates) Get(ctx context.Context, out any) bool {
	if t == nil || t.client == nil {
		return false
	}
	data, err := t.client.Get(ctx, t.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Template cache unavailable",
				slog.Any("error", err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("Template cache entry corrupt",
			slog.Any("error", err))
		return false
	}
	return true
}

// Put stores the catalog with the configured TTL. Failures are logged and
// otherwise ignored
func (t *Templates) Put(ctx context.Context, value any) {
	if t == nil || t.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Failed to encode template cache entry",
			slog.Any("error", err))
		return
	}
	if err := t.client.Set(ctx, t.key, data, t.ttl).Err(); err != nil {
		slog.Warn("Failed to store template cache entry",
			slog.Any("error", err))
	}
}
