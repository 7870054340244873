package cache

import (
	"context"
	"time"
)

// CappedCache bounds the time-to-live of every entry written through it.
type CappedCache struct {
	Cache
	max time.Duration
}

// WithMaxTTL wraps c so that no entry outlives max. A non-positive max
// returns c unchanged.
func WithMaxTTL(c Cache, max time.Duration) Cache {
	if max <= 0 {
		return c
	}
	return &CappedCache{Cache: c, max: max}
}

// Set stores data with min(ttl, max). A zero ttl becomes max.
func (c *CappedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > c.max {
		ttl = c.max
	}
	return c.Cache.Set(ctx, key, data, ttl)
}
