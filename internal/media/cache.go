package media

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

type cacheEntry struct {
	url     string
	expires time.Time
}

// CachedResolver memoises successful resolutions for ttl. Failures are not cached.
type CachedResolver struct {
	next interfaces.MediaResolver
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// CacheOption customises a CachedResolver.
type CacheOption func(*CachedResolver)

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedResolver) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCache wraps next with an in-memory TTL cache. A non-positive ttl
// returns next unchanged.
func WithCache(next interfaces.MediaResolver, ttl time.Duration, opts ...CacheOption) interfaces.MediaResolver {
	if next == nil || ttl <= 0 {
		return next
	}
	c := &CachedResolver{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedResolver) Resolve(ctx context.Context, path string) (string, error) {
	now := c.now()
	c.mu.Lock()
	entry, ok := c.entries[path]
	c.mu.Unlock()
	if ok && now.Before(entry.expires) {
		return entry.url, nil
	}

	url, err := c.next.Resolve(ctx, path)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.entries[path] = cacheEntry{url: url, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return url, nil
}

// Invalidate drops every cached entry.
func (c *CachedResolver) Invalidate() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}
