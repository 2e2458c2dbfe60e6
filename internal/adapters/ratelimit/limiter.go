// Package ratelimit counts requests per key in fixed windows using
// ulule/limiter with in-memory or redis counters.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

const storePrefix = "ratelimit"

type rule struct {
	limit  int
	window time.Duration
}

// FixedWindowLimiter implements the RateLimiter port. A window opens with the first
// request for a key and every request inside it counts against the limit.
// Rules share one counter store; keys must be unique per rule.
type FixedWindowLimiter struct {
	store limiter.Store
	now   func() time.Time

	mu       sync.Mutex
	limiters map[rule]*limiter.Limiter
}

func newFixedWindowLimiter(store limiter.Store) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		store:    store,
		now:      time.Now,
		limiters: make(map[rule]*limiter.Limiter),
	}
}

// Allow counts one request for key and decides whether it fits in the window
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitDecision, error) {
	if limit < 1 || window <= 0 {
		return ports.RateLimitDecision{}, errors.NewValidationError("limit", "rate limit must be positive")
	}

	result, err := l.limiterFor(rule{limit: limit, window: window}).Get(ctx, key)
	if err != nil {
		return ports.RateLimitDecision{}, errors.NewStorageError("rate limit counter unavailable", err)
	}

	decision := ports.RateLimitDecision{
		Allowed:   !result.Reached,
		Limit:     int(result.Limit),
		Remaining: int(result.Remaining),
		ResetAt:   time.Unix(result.Reset, 0),
	}
	if !decision.Allowed {
		decision.RetryAfter = decision.ResetAt.Sub(l.now())
		if decision.RetryAfter < time.Second {
			decision.RetryAfter = time.Second
		}
	}

	return decision, nil
}

func (l *FixedWindowLimiter) limiterFor(r rule) *limiter.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[r]; ok {
		return lim
	}
	lim := limiter.New(l.store, limiter.Rate{
		Period:    r.window,
		Limit:     int64(r.limit),
		Formatted: fmt.Sprintf("%d/%s", r.limit, r.window),
	})
	l.limiters[r] = lim
	return lim
}

// NewMemoryRateLimiter creates a limiter whose counters live in process memory
func NewMemoryRateLimiter() *FixedWindowLimiter {
	return newFixedWindowLimiter(memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          storePrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	}))
}

// NewRedisRateLimiter creates a limiter whose counters are shared through redis
// under <namespace>ratelimit:<key>
func NewRedisRateLimiter(client *redis.Client, namespace string) (*FixedWindowLimiter, error) {
	if client == nil {
		return nil, errors.NewConfigurationError("redis client cannot be nil", nil)
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: namespace + storePrefix,
	})
	if err != nil {
		return nil, errors.NewStorageError("failed to initialize redis rate limit store", err)
	}
	return newFixedWindowLimiter(store), nil
}

// NewRateLimiter selects the counter storage. redisClient is only called for the redis backend.
func NewRateLimiter(storage config.CacheType, redisClient func() (*redis.Client, error), namespace string) (*FixedWindowLimiter, error) {
	switch storage {
	case config.CacheTypeMemory:
		return NewMemoryRateLimiter(), nil
	case config.CacheTypeRedis:
		if redisClient == nil {
			return nil, errors.NewConfigurationError("redis rate limit storage selected but no redis client is available", nil)
		}
		client, err := redisClient()
		if err != nil {
			return nil, err
		}
		return NewRedisRateLimiter(client, namespace)
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported rate limit storage: %s", storage.String()), nil)
	}
}

// ClientIdentifier returns the first X-Forwarded-For entry, or the host part of remoteAddr
func ClientIdentifier(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	if remoteAddr == "" {
		return "unknown"
	}
	return remoteAddr
}
