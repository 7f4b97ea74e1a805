package cache

import (
	"context"
	"time"
)

// NullCache discards everything and always misses. It backs the CLI's
// --no-cache flag and the server's cache.backend = "none" setting, and
// keeps pipeline code free of nil checks: a disabled cache is still a
// Cache.
type NullCache struct{}

// NewNullCache returns the disabled cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

// Close is a no-op.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
