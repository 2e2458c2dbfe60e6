package external

import (
	"context"
	"sync"
	"time"

	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

// MemoryCacheProvider is a process-local TTL cache. Expired entries stay in the map
// until the next Get for their key evicts them.
type MemoryCacheProvider struct {
	data  map[string]memoryCacheItem
	mutex sync.RWMutex
	now   func() time.Time
}

type memoryCacheItem struct {
	data      []byte
	ttl       time.Duration
	createdAt time.Time
	expiresAt time.Time
}

// expired reports whether the item is past its expiry. A zero TTL is expired on the first read.
func (i memoryCacheItem) expired(now time.Time) bool {
	return i.ttl <= 0 || now.After(i.expiresAt)
}

func NewMemoryCacheProvider() *MemoryCacheProvider {
	return NewMemoryCacheProviderWithClock(time.Now)
}

// NewMemoryCacheProviderWithClock creates a cache reading time from now
func NewMemoryCacheProviderWithClock(now func() time.Time) *MemoryCacheProvider {
	return &MemoryCacheProvider{
		data: make(map[string]memoryCacheItem),
		now:  now,
	}
}

func (c *MemoryCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("key", "cache key cannot be empty")
	}

	// Eviction happens under the same lock as the expiry check.
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, exists := c.data[key]
	if !exists {
		return nil, errors.NewNotFoundError("cache miss")
	}
	if item.expired(c.now()) {
		delete(c.data, key)
		return nil, errors.NewNotFoundError("cache miss")
	}

	return item.data, nil
}

func (c *MemoryCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("key", "cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("value", "cache value cannot be nil")
	}
	if ttl < 0 {
		return errors.NewValidationError("ttl", "cache TTL cannot be negative")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.data[key] = memoryCacheItem{
		data:      value,
		ttl:       ttl,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}

	return nil
}

func (c *MemoryCacheProvider) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.NewValidationError("key", "cache key cannot be empty")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, exists := c.data[key]
	delete(c.data, key)
	return exists, nil
}

func (c *MemoryCacheProvider) Clear(ctx context.Context) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := len(c.data)
	c.data = make(map[string]memoryCacheItem)
	return removed, nil
}

func (c *MemoryCacheProvider) Stats(ctx context.Context) (ports.CacheEntryStats, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := c.now()
	stats := ports.CacheEntryStats{Total: len(c.data)}
	for _, item := range c.data {
		if !item.expired(now) {
			stats.Active++
		}
	}

	return stats, nil
}
