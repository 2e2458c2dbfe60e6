// Package api provides HTTP adapters for the hexagonal architecture
// These adapters handle incoming HTTP requests and translate them to use cases
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherproxy.app/internal/core/weather"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port int
	// AdminAPIKey guards the cache administration routes; empty disables them
	AdminAPIKey string
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router           *gin.Engine
	config           ServerConfig
	weatherUseCase   WeatherUseCase
	healthChecker    ports.SystemHealthChecker
	rateLimiter      ports.RateLimiter
	rateLimits       ports.RateLimitConfig
	metricsCollector ports.MetricsCollector
	metricsHandler   http.Handler
	logger           ports.Logger
}

// WeatherUseCase is the use case surface the HTTP adapter depends on
type WeatherUseCase interface {
	GetWeather(ctx context.Context, request weather.WeatherRequest) (*weather.WeatherResult, error)
	CacheStats(ctx context.Context) (ports.CacheStats, error)
	InvalidateCache(ctx context.Context, city string) (bool, error)
	ClearCache(ctx context.Context) (int, error)
	Events(ctx context.Context, request weather.EventsRequest) ([]ports.EventRecord, error)
	Snapshot(ctx context.Context, key string) (*ports.WeatherRecord, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config           ServerConfig
	WeatherUseCase   WeatherUseCase
	HealthChecker    ports.SystemHealthChecker
	RateLimiter      ports.RateLimiter
	RateLimits       ports.RateLimitConfig
	MetricsCollector ports.MetricsCollector
	// MetricsHandler serves GET /metrics; nil leaves the route unregistered
	MetricsHandler http.Handler
	Logger         ports.Logger
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	RegisterValidators()

	server := &HTTPServerAdapter{
		router:           gin.New(),
		config:           opts.Config,
		weatherUseCase:   opts.WeatherUseCase,
		healthChecker:    opts.HealthChecker,
		rateLimiter:      opts.RateLimiter,
		rateLimits:       opts.RateLimits,
		metricsCollector: opts.MetricsCollector,
		metricsHandler:   opts.MetricsHandler,
		logger:           opts.Logger,
	}

	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.WeatherUseCase == nil {
		return errors.NewConfigurationError("weather use case is required", nil)
	}
	if opts.HealthChecker == nil {
		return errors.NewConfigurationError("health checker is required", nil)
	}
	if opts.MetricsCollector == nil {
		return errors.NewConfigurationError("metrics collector is required", nil)
	}
	if opts.Logger == nil {
		return errors.NewConfigurationError("logger is required", nil)
	}
	if opts.RateLimits.Enabled && opts.RateLimiter == nil {
		return errors.NewConfigurationError("rate limiter is required when rate limiting is enabled", nil)
	}
	return nil
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestID(), s.requestLogger())

	s.router.GET("/weather", s.rateLimit("weather", s.rateLimits.Weather), s.getWeather)

	limited := s.router.Group("/", s.rateLimit("default", s.rateLimits.Default))
	{
		limited.GET("/health", s.getHealth)
		limited.GET("/events", s.getEvents)
		limited.GET("/snapshots/*key", s.getSnapshot)
	}

	admin := limited.Group("/cache", s.requireAdminKey())
	{
		admin.DELETE("/:city", s.invalidateCache)
		admin.DELETE("", s.clearCache)
	}

	if s.metricsHandler != nil {
		s.router.GET("/metrics", gin.WrapH(s.metricsHandler))
	}
}

// GetRouter returns the router for serving and testing
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
