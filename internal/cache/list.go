// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache for entry-list responses. A list
// query (surface, page, size, filters) maps to one cached JSON payload so
// repeated gallery requests skip the database entirely. Any entry or
// category mutation invalidates the whole list namespace, since a single
// change can move rows between pages.
package cache

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix namespaces list-response keys in Valkey.
	listKeyPrefix = "list:"

	// DefaultListTTL is how long a cached list response stays valid when no
	// mutation invalidates it first.
	DefaultListTTL = 1 * time.Minute
)

// ListCache manages entry-list response caching in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Key builds a deterministic cache key from a surface name and the
// normalized request parameters. Parameters are sorted so equivalent
// queries share one key regardless of argument order.
func Key(surface string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k+"="+v)
	}
	sort.Strings(keys)
	return surface + "?" + strings.Join(keys, "&")
}

// Get retrieves a cached list payload. Returns (nil, false) on miss or on
// any cache error — callers fall through to the database.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores a list payload with the configured TTL. Failures are logged
// and swallowed — caching is best-effort.
func (lc *ListCache) Set(ctx context.Context, key string, payload []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, payload, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached list response. Called after any
// entry or category mutation.
func (lc *ListCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("list cache cleared", "deleted", deleted)
	}
}
