package external

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/pkg/errors"
)

// NewRedisClient opens a redis connection and verifies it with PING.
// The client is shared by the cache, the snapshot store and rate limit counters.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("redis config cannot be nil", nil)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewUnavailableError("failed to connect to Redis: " + err.Error())
	}

	return client, nil
}
