package external

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-redis/redis/v8"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

const redisScanBatch = 100

// RedisCacheProviderAdapter implements CacheProvider port using Redis.
// All keys live under a namespace so Clear never touches other data in the database.
type RedisCacheProviderAdapter struct {
	client    *redis.Client
	namespace string
}

// NewRedisCacheProviderAdapter creates a new Redis cache provider adapter
func NewRedisCacheProviderAdapter(client *redis.Client, namespace string) (*RedisCacheProviderAdapter, error) {
	if client == nil {
		return nil, errors.NewConfigurationError("redis client cannot be nil", nil)
	}

	return &RedisCacheProviderAdapter{
		client:    client,
		namespace: namespace + "cache:",
	}, nil
}

func (r *RedisCacheProviderAdapter) key(key string) string {
	return r.namespace + key
}

// Get retrieves a value from Redis cache
func (r *RedisCacheProviderAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("key", "cache key cannot be empty")
	}

	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NewNotFoundError("cache miss")
		}
		return nil, errors.NewStorageError("redis get operation failed", err)
	}

	return val, nil
}

// Set stores a value in Redis cache with TTL. A zero TTL removes any current value,
// matching the memory cache where such an entry is never readable.
func (r *RedisCacheProviderAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("key", "cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("value", "cache value cannot be nil")
	}
	if ttl < 0 {
		return errors.NewValidationError("ttl", "cache TTL cannot be negative")
	}

	if ttl == 0 {
		if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
			return errors.NewStorageError("redis delete operation failed", err)
		}
		return nil
	}

	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return errors.NewStorageError("redis set operation failed", err)
	}

	return nil
}

// Delete removes a value from Redis cache
func (r *RedisCacheProviderAdapter) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.NewValidationError("key", "cache key cannot be empty")
	}

	removed, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return false, errors.NewStorageError("redis delete operation failed", err)
	}

	return removed > 0, nil
}

// Clear removes every key in the cache namespace
func (r *RedisCacheProviderAdapter) Clear(ctx context.Context) (int, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.NewStorageError("redis clear operation failed", err)
	}

	return int(removed), nil
}

// Stats counts keys in the namespace. Redis expires keys itself, so every stored key is active.
func (r *RedisCacheProviderAdapter) Stats(ctx context.Context) (ports.CacheEntryStats, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return ports.CacheEntryStats{}, err
	}

	return ports.CacheEntryStats{Total: len(keys), Active: len(keys)}, nil
}

func (r *RedisCacheProviderAdapter) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.namespace+"*", redisScanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.NewStorageError("redis scan operation failed", err)
	}
	return keys, nil
}

// Ping checks if Redis connection is alive
func (r *RedisCacheProviderAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewUnavailableError("Redis ping failed: " + err.Error())
	}
	return nil
}
