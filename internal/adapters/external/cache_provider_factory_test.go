package external

import (
	"fmt"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/pkg/errors"
)

func TestCacheProviderFactory_CreateCacheProvider(t *testing.T) {
	_, client := setupMockRedis(t)
	source := func() (*redis.Client, error) { return client, nil }

	tests := []struct {
		name         string
		factory      *CacheProviderFactory
		config       *config.CacheConfig
		expectError  bool
		expectedType string
	}{
		{
			name:        "NilConfig",
			factory:     NewCacheProviderFactory(source, "test:"),
			config:      nil,
			expectError: true,
		},
		{
			name:         "MemoryCache",
			factory:      NewCacheProviderFactory(nil, "test:"),
			config:       &config.CacheConfig{Type: config.CacheTypeMemory},
			expectedType: "*external.MemoryCacheProvider",
		},
		{
			name:         "RedisCache",
			factory:      NewCacheProviderFactory(source, "test:"),
			config:       &config.CacheConfig{Type: config.CacheTypeRedis},
			expectedType: "*external.RedisCacheProviderAdapter",
		},
		{
			name:        "RedisCacheWithoutClient",
			factory:     NewCacheProviderFactory(nil, "test:"),
			config:      &config.CacheConfig{Type: config.CacheTypeRedis},
			expectError: true,
		},
		{
			name:        "UnknownCacheType",
			factory:     NewCacheProviderFactory(source, "test:"),
			config:      &config.CacheConfig{Type: config.CacheTypeUnknown},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := tt.factory.CreateCacheProvider(tt.config)

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, errors.IsConfigurationError(err))
				assert.Nil(t, provider)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, fmt.Sprintf("%T", provider))
		})
	}
}
