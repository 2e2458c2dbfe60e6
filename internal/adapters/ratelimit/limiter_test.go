package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

var _ ports.RateLimiter = (*FixedWindowLimiter)(nil)

func TestMemoryRateLimiter_FixedWindow(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()
	started := time.Now()

	for i := 1; i <= 3; i++ {
		decision, err := limiter.Allow(ctx, "weather:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 3, decision.Limit)
		assert.Equal(t, 3-i, decision.Remaining)
		assert.WithinDuration(t, started.Add(time.Minute), decision.ResetAt, 2*time.Second)
	}

	decision, err := limiter.Allow(ctx, "weather:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.GreaterOrEqual(t, decision.RetryAfter, 50*time.Second)
	assert.LessOrEqual(t, decision.RetryAfter, time.Minute)

	other, err := limiter.Allow(ctx, "weather:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are counted separately")
}

func TestMemoryRateLimiter_WindowReopens(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)

	decision, err := limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.GreaterOrEqual(t, decision.RetryAfter, time.Second)

	time.Sleep(1100 * time.Millisecond)

	decision, err = limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "a new window opens once the old one closes")
	assert.Equal(t, 0, decision.Remaining)
}

func TestMemoryRateLimiter_OneLimiterPerRule(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	for _, key := range []string{"default:a", "default:b"} {
		_, err := limiter.Allow(ctx, key, 100, time.Minute)
		require.NoError(t, err)
	}
	_, err := limiter.Allow(ctx, "weather:a", 30, time.Minute)
	require.NoError(t, err)

	assert.Len(t, limiter.limiters, 2)
}

func TestMemoryRateLimiter_Concurrent(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := limiter.Allow(ctx, "shared", 10, time.Minute)
			assert.NoError(t, err)
			if decision.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}

func TestFixedWindowLimiter_InvalidRule(t *testing.T) {
	limiter := NewMemoryRateLimiter()

	_, err := limiter.Allow(context.Background(), "k", 0, time.Minute)
	assert.True(t, errors.IsValidationError(err))

	_, err = limiter.Allow(context.Background(), "k", 1, 0)
	assert.True(t, errors.IsValidationError(err))
}

func setupMockRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisRateLimiter_FixedWindow(t *testing.T) {
	mr, client := setupMockRedis(t)
	limiter, err := NewRedisRateLimiter(client, "test:")
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(ctx, "default:10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	}

	assert.True(t, mr.Exists("test:ratelimit:default:10.0.0.1"))
	assert.Equal(t, time.Minute, mr.TTL("test:ratelimit:default:10.0.0.1"))

	decision, err := limiter.Allow(ctx, "default:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, 50*time.Second)

	mr.FastForward(time.Minute + time.Second)

	decision, err = limiter.Allow(ctx, "default:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.Remaining)
}

func TestRedisRateLimiter_ConnectionLost(t *testing.T) {
	mr, client := setupMockRedis(t)
	limiter, err := NewRedisRateLimiter(client, "test:")
	require.NoError(t, err)

	mr.Close()

	_, err = limiter.Allow(context.Background(), "k", 10, time.Minute)
	assert.True(t, errors.IsStorageError(err))
}

func TestNewRateLimiter(t *testing.T) {
	mr, client := setupMockRedis(t)

	limiter, err := NewRateLimiter(config.CacheTypeMemory, nil, "test:")
	require.NoError(t, err)
	assert.NotNil(t, limiter)

	limiter, err = NewRateLimiter(config.CacheTypeRedis, func() (*redis.Client, error) { return client, nil }, "test:")
	require.NoError(t, err)
	_, err = limiter.Allow(context.Background(), "default:10.0.0.9", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:ratelimit:default:10.0.0.9"))

	_, err = NewRateLimiter(config.CacheTypeRedis, nil, "test:")
	assert.True(t, errors.IsConfigurationError(err))

	_, err = NewRateLimiter(config.CacheTypeUnknown, nil, "test:")
	assert.True(t, errors.IsConfigurationError(err))

	_, err = NewRedisRateLimiter(nil, "test:")
	assert.True(t, errors.IsConfigurationError(err))
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		expected     string
	}{
		{"ForwardedSingle", "203.0.113.7", "10.0.0.1:5555", "203.0.113.7"},
		{"ForwardedChain", " 203.0.113.7 , 198.51.100.2", "10.0.0.1:5555", "203.0.113.7"},
		{"ForwardedEmptyFirst", " ,198.51.100.2", "10.0.0.1:5555", "10.0.0.1"},
		{"RemoteAddrIPv4", "", "192.0.2.10:40000", "192.0.2.10"},
		{"RemoteAddrIPv6", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"RemoteAddrNoPort", "", "192.0.2.10", "192.0.2.10"},
		{"Nothing", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClientIdentifier(tt.forwardedFor, tt.remoteAddr))
		})
	}
}
