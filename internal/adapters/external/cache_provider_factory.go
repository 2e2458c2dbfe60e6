package external

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

// RedisClientSource returns the shared redis client, connecting on first use
type RedisClientSource func() (*redis.Client, error)

type CacheProviderFactory struct {
	redisClient RedisClientSource
	namespace   string
}

func NewCacheProviderFactory(redisClient RedisClientSource, namespace string) *CacheProviderFactory {
	return &CacheProviderFactory{
		redisClient: redisClient,
		namespace:   namespace,
	}
}

func (f *CacheProviderFactory) CreateCacheProvider(cfg *config.CacheConfig) (ports.CacheProvider, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.CacheTypeMemory:
		return NewMemoryCacheProvider(), nil
	case config.CacheTypeRedis:
		if f.redisClient == nil {
			return nil, errors.NewConfigurationError("redis cache selected but no redis client is available", nil)
		}
		client, err := f.redisClient()
		if err != nil {
			return nil, err
		}
		provider, err := NewRedisCacheProviderAdapter(client, f.namespace)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type.String()), nil)
	}
}
