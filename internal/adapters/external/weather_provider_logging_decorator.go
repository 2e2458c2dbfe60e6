package external

import (
	"context"
	"time"

	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

const (
	ProviderOutcomeSuccess = "success"
	ProviderOutcomeError   = "error"
)

// WeatherProviderLoggingDecorator decorates weather providers with structured logging and call metrics
type WeatherProviderLoggingDecorator struct {
	provider ports.WeatherProvider
	logger   ports.Logger
	metrics  ports.MetricsCollector
}

// NewWeatherProviderLoggingDecorator creates a new logging decorator for weather providers.
// metrics may be nil.
func NewWeatherProviderLoggingDecorator(provider ports.WeatherProvider, logger ports.Logger, metrics ports.MetricsCollector) ports.WeatherProvider {
	return &WeatherProviderLoggingDecorator{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// FetchWeather wraps the provider call with structured logging
func (d *WeatherProviderLoggingDecorator) FetchWeather(ctx context.Context, location string) (*ports.WeatherRecord, error) {
	providerName := d.provider.GetProviderName()

	d.logger.Info("Weather API request started",
		ports.F("provider", providerName),
		ports.F("city", location),
		ports.F("event", "request"))

	startTime := time.Now()
	record, err := d.provider.FetchWeather(ctx, location)
	duration := time.Since(startTime)

	if err != nil {
		fields := []ports.Field{
			ports.F("provider", providerName),
			ports.F("city", location),
			ports.F("event", "error"),
			ports.F("duration_ms", duration.Milliseconds()),
			ports.F("error", err.Error()),
		}
		if appErr, ok := errors.As(err); ok {
			fields = append(fields, ports.F("status_code", appErr.StatusCode))
		}
		d.logger.Error("Weather API request failed", fields...)
		d.record(ctx, providerName, ProviderOutcomeError, duration)
		return nil, err
	}

	d.logger.Info("Weather API request completed",
		ports.F("provider", providerName),
		ports.F("city", location),
		ports.F("event", "response"),
		ports.F("duration_ms", duration.Milliseconds()),
		ports.F("temperature", record.Temperature),
		ports.F("humidity", record.Humidity),
		ports.F("description", record.Description))
	d.record(ctx, providerName, ProviderOutcomeSuccess, duration)

	return record, nil
}

// GetProviderName returns the name of the wrapped provider
func (d *WeatherProviderLoggingDecorator) GetProviderName() string {
	return d.provider.GetProviderName()
}

func (d *WeatherProviderLoggingDecorator) record(ctx context.Context, provider, outcome string, duration time.Duration) {
	if d.metrics != nil {
		d.metrics.RecordProviderCall(ctx, provider, outcome, duration)
	}
}
