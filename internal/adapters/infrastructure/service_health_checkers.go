package infrastructure

import (
	"context"

	"github.com/go-redis/redis/v8"
	"weatherproxy.app/internal/ports"
)

// CacheHealthChecker reports cache reachability and entry counts
type CacheHealthChecker struct {
	cache     ports.WeatherCache
	cacheType string
}

func NewCacheHealthChecker(cache ports.WeatherCache, cacheType string) *CacheHealthChecker {
	return &CacheHealthChecker{cache: cache, cacheType: cacheType}
}

func (c *CacheHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "cache",
		Details:   map[string]interface{}{"type": c.cacheType},
	}

	if c.cache == nil {
		status.Status = ports.HealthStatusUnhealthy
		status.Error = "cache is not available"
		return status
	}

	stats, err := c.cache.Stats(ctx)
	if err != nil {
		status.Status = ports.HealthStatusUnhealthy
		status.Error = err.Error()
		return status
	}

	status.Status = ports.HealthStatusHealthy
	status.Details["total_entries"] = stats.TotalEntries
	status.Details["active_entries"] = stats.ActiveEntries
	status.Details["ttl_seconds"] = stats.TTLSeconds
	return status
}

// RedisHealthChecker pings the shared redis connection
type RedisHealthChecker struct {
	client *redis.Client
}

func NewRedisHealthChecker(client *redis.Client) *RedisHealthChecker {
	return &RedisHealthChecker{client: client}
}

func (r *RedisHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{Component: "redis"}

	if r.client == nil {
		status.Status = ports.HealthStatusUnhealthy
		status.Error = "redis client is nil"
		return status
	}

	if err := r.client.Ping(ctx).Err(); err != nil {
		status.Status = ports.HealthStatusUnhealthy
		status.Error = err.Error()
		return status
	}

	status.Status = ports.HealthStatusHealthy
	status.Details = map[string]interface{}{"addr": r.client.Options().Addr}
	return status
}

// WeatherProviderHealthChecker reports whether the upstream provider is configured.
// It never calls the provider.
type WeatherProviderHealthChecker struct {
	providerName string
	config       ports.WeatherConfig
}

func NewWeatherProviderHealthChecker(providerName string, cfg ports.WeatherConfig) *WeatherProviderHealthChecker {
	return &WeatherProviderHealthChecker{providerName: providerName, config: cfg}
}

func (w *WeatherProviderHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "weather_provider",
		Status:    ports.HealthStatusHealthy,
		Details: map[string]interface{}{
			"provider":        w.providerName,
			"configured":      w.config.Configured,
			"circuit_breaker": w.config.CircuitBreakerEnabled,
		},
	}

	if !w.config.Configured {
		status.Status = ports.HealthStatusDegraded
		status.Error = "weather provider API key is not configured"
	}

	return status
}
