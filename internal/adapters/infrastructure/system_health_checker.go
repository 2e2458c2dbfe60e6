package infrastructure

import (
	"context"

	"weatherproxy.app/internal/ports"
)

// SystemHealthChecker aggregates all health checks
type SystemHealthChecker struct {
	checkers       map[string]ports.HealthChecker
	configProvider ports.ConfigProvider
}

// SystemHealthCheckerConfig holds the configuration for creating a system health checker.
// Nil checkers are skipped.
type SystemHealthCheckerConfig struct {
	EventLogChecker ports.HealthChecker
	CacheChecker    ports.HealthChecker
	RedisChecker    ports.HealthChecker
	ProviderChecker ports.HealthChecker
	ConfigProvider  ports.ConfigProvider
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(config SystemHealthCheckerConfig) *SystemHealthChecker {
	checkers := make(map[string]ports.HealthChecker)
	for name, checker := range map[string]ports.HealthChecker{
		"event_log":        config.EventLogChecker,
		"cache":            config.CacheChecker,
		"redis":            config.RedisChecker,
		"weather_provider": config.ProviderChecker,
	} {
		if checker != nil {
			checkers[name] = checker
		}
	}

	return &SystemHealthChecker{
		checkers:       checkers,
		configProvider: config.ConfigProvider,
	}
}

// CheckAll performs health checks on all components
func (s *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	results := make(map[string]ports.HealthStatus, len(s.checkers)+1)

	for name, checker := range s.checkers {
		results[name] = checker.Check(ctx)
	}

	if s.configProvider != nil {
		cache := s.configProvider.GetCacheConfig()
		storage := s.configProvider.GetStorageConfig()
		rateLimit := s.configProvider.GetRateLimitConfig()
		results["config"] = ports.HealthStatus{
			Component: "config",
			Status:    ports.HealthStatusHealthy,
			Details: map[string]interface{}{
				"cache_type":         cache.Type,
				"cache_ttl_seconds":  int(cache.TTL.Seconds()),
				"snapshot_store":     storage.Type,
				"event_log_driver":   s.configProvider.GetEventLogConfig().Driver,
				"rate_limit_enabled": rateLimit.Enabled,
			},
		}
	}

	return results
}

// OverallStatus folds component statuses: any unhealthy wins, then degraded
func OverallStatus(statuses map[string]ports.HealthStatus) string {
	overall := ports.HealthStatusHealthy
	for _, status := range statuses {
		switch status.Status {
		case ports.HealthStatusUnhealthy:
			return ports.HealthStatusUnhealthy
		case ports.HealthStatusDegraded:
			overall = ports.HealthStatusDegraded
		}
	}
	return overall
}
