package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"weatherproxy.app/internal/adapters/api"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/internal/core/weather"
	"weatherproxy.app/internal/ports"
)

type Application struct {
	config *config.Config

	// Use Cases
	weatherUseCase *weather.UseCase

	// Adapters
	httpServer *http.Server
	router     *gin.Engine

	// Infrastructure
	deps  *DependencyContainer
	ports *ports.ApplicationPorts
}

// NewApplication wires every component from cfg
func NewApplication(cfg *config.Config) (*Application, error) {
	deps, err := NewDependencyContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	app, err := NewApplicationWithDependencies(cfg, deps)
	if err != nil {
		_ = deps.Cleanup()
		return nil, err
	}
	return app, nil
}

// NewApplicationWithDependencies creates an application over an existing container
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	weatherUseCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		WeatherProvider: a.ports.WeatherProvider,
		Cache:           a.ports.WeatherCache,
		Snapshots:       a.ports.SnapshotStore,
		Events:          a.ports.EventLog,
		Logger:          a.ports.Logger,
		Metrics:         a.ports.MetricsCollector,
	})
	if err != nil {
		return fmt.Errorf("create weather use case: %w", err)
	}
	a.weatherUseCase = weatherUseCase

	slog.Info("Use cases initialized successfully")
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port:        a.config.Server.Port,
			AdminAPIKey: a.config.Admin.APIKey,
		},
		WeatherUseCase:   a.weatherUseCase,
		HealthChecker:    a.ports.HealthChecker,
		RateLimiter:      a.ports.RateLimiter,
		RateLimits:       a.ports.ConfigProvider.GetRateLimitConfig(),
		MetricsCollector: a.ports.MetricsCollector,
		MetricsHandler:   promhttp.HandlerFor(a.deps.Metrics().Registry(), promhttp.HandlerOpts{}),
		Logger:           a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}

	a.router = httpAdapter.GetRouter()

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("Adapters initialized successfully")
	return nil
}

// Start serves HTTP until Shutdown is called
func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting HTTP server",
		"port", a.config.Server.Port,
		"weather_configured", a.weatherUseCase.Configured())

	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

// Shutdown stops the HTTP server, clears the cache and releases resources
func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
		if closeErr := a.Close(); closeErr != nil {
			slog.Warn("Error releasing resources", "error", closeErr)
		}
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	if cleared, err := a.weatherUseCase.ClearCache(ctx); err != nil {
		slog.Warn("Error clearing cache", "error", err)
	} else {
		slog.Info("Cache cleared", "entries", cleared)
	}

	if err := a.Close(); err != nil {
		slog.Warn("Error releasing resources", "error", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Close releases resources without touching the cache
func (a *Application) Close() error {
	return a.deps.Cleanup()
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.router
}

// GetWeatherUseCase returns the weather use case
func (a *Application) GetWeatherUseCase() *weather.UseCase {
	return a.weatherUseCase
}
