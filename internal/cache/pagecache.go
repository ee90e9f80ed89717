package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Defaults for the global feed page cache.
const (
	IndexPagePrefix = "index_page"
	IndexPageTTL    = 20 * time.Second
)

// PageCache stores rendered pages under prefix for ttl. Entries are never
// invalidated by writes; they expire or are removed by Clear.
type PageCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPageCache returns a PageCache. A nil client yields a pass-through cache.
func NewPageCache(rdb *redis.Client, prefix string, ttl time.Duration) *PageCache {
	return &PageCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Prefix returns the key prefix.
func (p *PageCache) Prefix() string {
	return p.prefix
}

// TTL returns the entry lifetime.
func (p *PageCache) TTL() time.Duration {
	return p.ttl
}

func (p *PageCache) key(k string) string {
	return p.prefix + ":" + k
}

func (p *PageCache) enabled() bool {
	return p != nil && p.rdb != nil && p.ttl > 0
}

// Get returns the cached body for key.
func (p *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !p.enabled() {
		return nil, false
	}
	body, err := p.rdb.Get(ctx, p.key(key)).Bytes()
	switch {
	case err == nil:
		observability.PageCacheRequests.WithLabelValues(p.prefix, "hit").Inc()
		return body, true
	case errors.Is(err, redis.Nil):
		observability.PageCacheRequests.WithLabelValues(p.prefix, "miss").Inc()
	default:
		observability.PageCacheRequests.WithLabelValues(p.prefix, "error").Inc()
		middleware.Logger.WarnContext(ctx, "page cache read failed",
			slog.String("key", p.key(key)), slog.String("error", err.Error()))
	}
	return nil, false
}

// Set stores body under key for the cache TTL.
func (p *PageCache) Set(ctx context.Context, key string, body []byte) {
	if !p.enabled() {
		return
	}
	if err := p.rdb.Set(ctx, p.key(key), body, p.ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "page cache write failed",
			slog.String("key", p.key(key)), slog.String("error", err.Error()))
	}
}

// Aside returns the cached body for key or calls render, caches and returns its output.
// Render errors are returned and never cached.
func (p *PageCache) Aside(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, error) {
	if body, ok := p.Get(ctx, key); ok {
		return body, nil
	}
	body, err := render()
	if err != nil {
		return nil, err
	}
	p.Set(ctx, key, body)
	return body, nil
}

// Clear removes every entry under the prefix.
func (p *PageCache) Clear(ctx context.Context) error {
	if p == nil || p.rdb == nil {
		return nil
	}
	iter := p.rdb.Scan(ctx, 0, p.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return p.rdb.Del(ctx, keys...).Err()
}
