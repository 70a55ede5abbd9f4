// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for public API responses.
// The sidebar payload (categories and popular tags with visible-post
// counts) is recomputed with several aggregate queries per request, so it
// is cached briefly and invalidated on any content or taxonomy write.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a cached response stays fresh.
	DefaultResponseTTL = 5 * time.Minute

	// SidebarKey identifies the blog sidebar payload.
	SidebarKey = "sidebar"
)

// ResponseCache stores pre-serialized JSON responses in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached JSON payload. Returns (nil, false) on miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a JSON payload with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a cached payload. Called after writes that change
// what the payload would contain.
func (rc *ResponseCache) Invalidate(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, responseKeyPrefix+key).Err(); err != nil {
		slog.Warn("response cache invalidate error", "key", key, "error", err)
	}
}
