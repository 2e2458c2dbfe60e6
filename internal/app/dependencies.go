package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"weatherproxy.app/internal/adapters/database"
	"weatherproxy.app/internal/adapters/external"
	"weatherproxy.app/internal/adapters/infrastructure"
	"weatherproxy.app/internal/adapters/ratelimit"
	"weatherproxy.app/internal/adapters/storage"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/internal/ports"
)

type DependencyContainer struct {
	config *config.Config
	db     *gorm.DB

	redisOnce   sync.Once
	redisClient *redis.Client
	redisErr    error

	fileLogger *infrastructure.FileLoggerAdapter
	metrics    *infrastructure.PrometheusMetricsCollector
	ports      *ports.ApplicationPorts
}

func NewDependencyContainer(cfg *config.Config) (*DependencyContainer, error) {
	container := &DependencyContainer{
		config: cfg,
	}

	if err := container.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("initialize event log database: %w", err)
	}

	if err := container.initializePorts(); err != nil {
		_ = container.Cleanup()
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) initializeDatabase() error {
	slog.Info("Initializing event log database...", "driver", c.config.EventLog.Driver.String())

	db, err := database.Open(&c.config.EventLog)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	c.db = db
	slog.Info("Event log database connection established")
	return nil
}

// redis connects on first use; every redis-backed component shares the client
func (c *DependencyContainer) redis() (*redis.Client, error) {
	c.redisOnce.Do(func() {
		c.redisClient, c.redisErr = external.NewRedisClient(&c.config.Redis)
		if c.redisErr == nil {
			slog.Info("Redis connection established", "addr", c.config.Redis.Addr)
		}
	})
	return c.redisClient, c.redisErr
}

func (c *DependencyContainer) initializePorts() error {
	slog.Info("Initializing ports...")

	logger := infrastructure.NewSlogLoggerAdapter(slog.Default())
	c.metrics = infrastructure.NewPrometheusMetricsCollector()
	namespace := c.config.Redis.KeyPrefix

	eventLog, err := database.NewEventLogRepositoryAdapter(c.db)
	if err != nil {
		return fmt.Errorf("create event log: %w", err)
	}

	cacheProvider, err := external.NewCacheProviderFactory(c.redis, namespace).CreateCacheProvider(&c.config.Cache)
	if err != nil {
		return fmt.Errorf("create cache provider: %w", err)
	}
	weatherCache := external.NewWeatherCacheAdapter(cacheProvider, c.config.Cache.TTL(), c.metrics)

	slog.Info("Cache provider initialized",
		"type", c.config.Cache.Type.String(),
		"ttl_seconds", c.config.Cache.TTLSeconds)

	snapshotStore, err := storage.NewSnapshotStoreFactory(c.redis, namespace).CreateSnapshotStore(&c.config.Storage)
	if err != nil {
		return fmt.Errorf("create snapshot store: %w", err)
	}

	var rateLimiter ports.RateLimiter
	if c.config.RateLimit.Enabled {
		limiter, err := ratelimit.NewRateLimiter(c.config.RateLimit.Storage, c.redis, namespace)
		if err != nil {
			return fmt.Errorf("create rate limiter: %w", err)
		}
		rateLimiter = limiter
	}

	weatherProvider := c.initializeWeatherProvider(logger)
	configProvider := infrastructure.NewConfigProviderAdapter(c.config)

	healthConfig := infrastructure.SystemHealthCheckerConfig{
		EventLogChecker: infrastructure.NewEventLogHealthChecker(eventLog, c.config.EventLog.Driver.String()),
		CacheChecker:    infrastructure.NewCacheHealthChecker(weatherCache, c.config.Cache.Type.String()),
		ProviderChecker: infrastructure.NewWeatherProviderHealthChecker(
			external.OpenWeatherMapProviderName, configProvider.GetWeatherConfig()),
		ConfigProvider: configProvider,
	}
	if c.config.UsesRedis() {
		if client, err := c.redis(); err == nil {
			healthConfig.RedisChecker = infrastructure.NewRedisHealthChecker(client)
		}
	}

	c.ports = &ports.ApplicationPorts{
		// Weather
		WeatherProvider: weatherProvider,
		WeatherCache:    weatherCache,

		// Persistence
		SnapshotStore: snapshotStore,
		EventLog:      eventLog,

		// Traffic control
		RateLimiter: rateLimiter,

		// Infrastructure
		ConfigProvider:   configProvider,
		Logger:           logger,
		MetricsCollector: c.metrics,
		HealthChecker:    infrastructure.NewSystemHealthChecker(healthConfig),
	}

	slog.Info("Ports initialized successfully")
	return nil
}

// initializeWeatherProvider returns nil when no API key is configured so the
// service still starts and answers weather requests with 503
func (c *DependencyContainer) initializeWeatherProvider(logger ports.Logger) ports.WeatherProvider {
	weatherCfg := c.config.Weather
	if !weatherCfg.Configured() {
		slog.Warn("OPENWEATHERMAP_API_KEY is not set, weather requests will be rejected")
		return nil
	}

	providerLogger := ports.Logger(logger)
	if weatherCfg.EnableLogging && weatherCfg.LogFilePath != "" {
		fileLogger, err := infrastructure.NewFileLoggerAdapter(weatherCfg.LogFilePath)
		if err != nil {
			slog.Warn("Failed to create file logger, falling back to slog", "error", err)
		} else {
			c.fileLogger = fileLogger
			providerLogger = infrastructure.TeeLogger{logger, fileLogger}
			slog.Info("File logging enabled", "path", weatherCfg.LogFilePath)
		}
	}

	var breaker *external.CircuitBreakerSettings
	if weatherCfg.CircuitBreakerEnabled {
		breaker = &external.CircuitBreakerSettings{
			MaxConsecutiveFailures: weatherCfg.CircuitBreakerMaxFailures,
			OpenTimeout:            weatherCfg.CircuitBreakerTimeout(),
		}
	}

	var provider ports.WeatherProvider = external.NewOpenWeatherMapProviderAdapter(external.OpenWeatherMapProviderParams{
		APIKey:         weatherCfg.APIKey,
		BaseURL:        weatherCfg.BaseURL,
		Timeout:        weatherCfg.FetchTimeout(),
		CircuitBreaker: breaker,
		Logger:         providerLogger,
	})

	if weatherCfg.EnableLogging {
		provider = external.NewWeatherProviderLoggingDecorator(provider, providerLogger, c.metrics)
		slog.Info("Weather provider logging enabled")
	}

	return provider
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// Metrics exposes the collector whose registry backs GET /metrics
func (c *DependencyContainer) Metrics() *infrastructure.PrometheusMetricsCollector {
	return c.metrics
}

// Cleanup releases the database, the redis client and the provider log file
func (c *DependencyContainer) Cleanup() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if c.db != nil {
		keep(database.Close(c.db))
	}
	if c.redisClient != nil {
		keep(c.redisClient.Close())
	}
	if c.fileLogger != nil {
		keep(c.fileLogger.Close())
	}
	return firstErr
}
