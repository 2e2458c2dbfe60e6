package storage

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

type SnapshotStoreFactory struct {
	redisClient func() (*redis.Client, error)
	namespace   string
}

// NewSnapshotStoreFactory creates a factory. redisClient is only called when the redis store is selected.
func NewSnapshotStoreFactory(redisClient func() (*redis.Client, error), namespace string) *SnapshotStoreFactory {
	return &SnapshotStoreFactory{
		redisClient: redisClient,
		namespace:   namespace,
	}
}

func (f *SnapshotStoreFactory) CreateSnapshotStore(cfg *config.StorageConfig) (ports.SnapshotStore, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("storage config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.SnapshotStoreFile:
		store, err := NewFileSnapshotStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.SnapshotStoreRedis:
		if f.redisClient == nil {
			return nil, errors.NewConfigurationError("redis snapshot store selected but no redis client is available", nil)
		}
		client, err := f.redisClient()
		if err != nil {
			return nil, err
		}
		store, err := NewRedisSnapshotStore(client, f.namespace)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported snapshot store: %s", cfg.Type.String()), nil)
	}
}
