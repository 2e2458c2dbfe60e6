package ports

import (
	"context"
	"time"
)

// CacheEntryStats counts stored entries. Total includes expired entries not yet evicted.
type CacheEntryStats struct {
	Total  int
	Active int
}

// CacheProvider defines the contract for caching operations
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) (int, error)
	Stats(ctx context.Context) (CacheEntryStats, error)
}

// CacheMetrics defines the contract for cache performance tracking
type CacheMetrics interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
}
