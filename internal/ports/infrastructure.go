package ports

import (
	"context"
	"time"
)

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int
}

// WeatherConfig represents upstream provider configuration
type WeatherConfig struct {
	Configured            bool
	BaseURL               string
	FetchTimeout          time.Duration
	CircuitBreakerEnabled bool
}

// CacheConfig represents cache configuration
type CacheConfig struct {
	Type string
	TTL  time.Duration
}

// StorageConfig represents snapshot store configuration
type StorageConfig struct {
	Type    string
	DataDir string
}

// EventLogConfig represents event log configuration
type EventLogConfig struct {
	Driver string
}

// RateLimitRule is a request budget for one route group
type RateLimitRule struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	Storage string
	Default RateLimitRule
	Weather RateLimitRule
}

// ConfigProvider defines the contract for configuration management
type ConfigProvider interface {
	GetServerConfig() ServerConfig
	GetWeatherConfig() WeatherConfig
	GetCacheConfig() CacheConfig
	GetStorageConfig() StorageConfig
	GetEventLogConfig() EventLogConfig
	GetRateLimitConfig() RateLimitConfig
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	CacheMetrics
	RecordProviderCall(ctx context.Context, provider, outcome string, duration time.Duration)
	RecordEvent(ctx context.Context, cacheHit bool)
	RecordSnapshot(ctx context.Context, success bool)
	RecordRateLimited(ctx context.Context, route string)
}
