package infrastructure

import (
	"weatherproxy.app/internal/config"
	"weatherproxy.app/internal/ports"
)

// ConfigProviderAdapter implements the ConfigProvider port
type ConfigProviderAdapter struct {
	config *config.Config
}

// NewConfigProviderAdapter creates a new config provider adapter
func NewConfigProviderAdapter(cfg *config.Config) *ConfigProviderAdapter {
	return &ConfigProviderAdapter{
		config: cfg,
	}
}

func (c *ConfigProviderAdapter) GetServerConfig() ports.ServerConfig {
	return ports.ServerConfig{
		Port: c.config.Server.Port,
	}
}

func (c *ConfigProviderAdapter) GetWeatherConfig() ports.WeatherConfig {
	return ports.WeatherConfig{
		Configured:            c.config.Weather.Configured(),
		BaseURL:               c.config.Weather.BaseURL,
		FetchTimeout:          c.config.Weather.FetchTimeout(),
		CircuitBreakerEnabled: c.config.Weather.CircuitBreakerEnabled,
	}
}

func (c *ConfigProviderAdapter) GetCacheConfig() ports.CacheConfig {
	return ports.CacheConfig{
		Type: c.config.Cache.Type.String(),
		TTL:  c.config.Cache.TTL(),
	}
}

func (c *ConfigProviderAdapter) GetStorageConfig() ports.StorageConfig {
	return ports.StorageConfig{
		Type:    c.config.Storage.Type.String(),
		DataDir: c.config.Storage.DataDir,
	}
}

func (c *ConfigProviderAdapter) GetEventLogConfig() ports.EventLogConfig {
	return ports.EventLogConfig{
		Driver: c.config.EventLog.Driver.String(),
	}
}

func (c *ConfigProviderAdapter) GetRateLimitConfig() ports.RateLimitConfig {
	rl := c.config.RateLimit
	return ports.RateLimitConfig{
		Enabled: rl.Enabled,
		Storage: rl.Storage.String(),
		Default: ports.RateLimitRule{Limit: rl.Default.Limit, Window: rl.Default.Window},
		Weather: ports.RateLimitRule{Limit: rl.Weather.Limit, Window: rl.Weather.Window},
	}
}
