package storage

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/go-redis/redis/v8"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

// RedisSnapshotStore keeps snapshots as redis strings without expiry.
// Keys returned to callers are the bare snapshot names.
type RedisSnapshotStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisSnapshotStore creates a snapshot store under <namespace>snapshot:
func NewRedisSnapshotStore(client *redis.Client, namespace string) (*RedisSnapshotStore, error) {
	if client == nil {
		return nil, errors.NewConfigurationError("redis client cannot be nil", nil)
	}

	return &RedisSnapshotStore{
		client:    client,
		namespace: namespace + "snapshot:",
	}, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, record *ports.WeatherRecord) (string, error) {
	data, err := encodeSnapshot(record)
	if err != nil {
		return "", err
	}

	name := SnapshotName(record)
	if err := s.client.Set(ctx, s.namespace+name, data, 0).Err(); err != nil {
		return "", errors.NewStorageError("redis snapshot write failed", err)
	}

	return name, nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context, key string) (*ports.WeatherRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.NewNotFoundError("snapshot not found")
	}

	data, err := s.client.Get(ctx, s.namespace+key).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NewNotFoundError("snapshot not found")
		}
		return nil, errors.NewStorageError("redis snapshot read failed", err)
	}

	return decodeSnapshot(data)
}
