// Package external provides adapters for external services:
// the upstream weather provider and the cache backends.
package external

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
	"weatherproxy.app/pkg/validation"
)

const (
	OpenWeatherMapProviderName   = "openweathermap"
	defaultOpenWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	defaultFetchTimeout          = 10 * time.Second
	unknownCity                  = "Unknown"
)

var errUpstreamServer = stderrors.New("upstream server error")

// CircuitBreakerSettings configures the optional breaker around upstream calls
type CircuitBreakerSettings struct {
	MaxConsecutiveFailures uint32
	OpenTimeout            time.Duration
}

// OpenWeatherMapProviderAdapter implements WeatherProvider port for OpenWeatherMap current conditions
type OpenWeatherMapProviderAdapter struct {
	apiKey  string
	baseURL string
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  ports.Logger
}

// OpenWeatherMapProviderParams holds parameters for creating OpenWeatherMap provider
type OpenWeatherMapProviderParams struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// CircuitBreaker is nil when the breaker is disabled
	CircuitBreaker *CircuitBreakerSettings
	Logger         ports.Logger
}

// NewOpenWeatherMapProviderAdapter creates a new OpenWeatherMap provider adapter
func NewOpenWeatherMapProviderAdapter(params OpenWeatherMapProviderParams) *OpenWeatherMapProviderAdapter {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenWeatherMapBaseURL
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	provider := &OpenWeatherMapProviderAdapter{
		apiKey:  params.APIKey,
		baseURL: baseURL,
		client:  resty.New().SetTimeout(timeout),
		logger:  params.Logger,
	}

	if params.CircuitBreaker != nil {
		maxFailures := params.CircuitBreaker.MaxConsecutiveFailures
		provider.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        OpenWeatherMapProviderName,
			MaxRequests: 1,
			Timeout:     params.CircuitBreaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				if provider.logger != nil {
					provider.logger.Warn("Circuit breaker state changed",
						ports.F("provider", name),
						ports.F("from", from.String()),
						ports.F("to", to.String()))
				}
			},
		})
	}

	return provider
}

// FetchWeather performs a single upstream request and normalizes the payload
func (p *OpenWeatherMapProviderAdapter) FetchWeather(ctx context.Context, location string) (*ports.WeatherRecord, error) {
	if !validation.IsNotEmpty(location) {
		return nil, errors.NewValidationError("city", "city cannot be empty")
	}

	resp, err := p.execute(ctx, location)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return parseOpenWeatherMapPayload(resp.Body())
	case http.StatusNotFound:
		return nil, errors.NewLocationNotFoundError(location)
	case http.StatusUnauthorized:
		return nil, errors.NewInvalidCredentialsError()
	default:
		return nil, errors.NewProviderError(resp.StatusCode(), "API error: "+resp.String(), nil)
	}
}

// GetProviderName returns the name of this weather provider
func (p *OpenWeatherMapProviderAdapter) GetProviderName() string {
	return OpenWeatherMapProviderName
}

func (p *OpenWeatherMapProviderAdapter) execute(ctx context.Context, location string) (*resty.Response, error) {
	request := func() (*resty.Response, error) {
		return p.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"q":     location,
				"appid": p.apiKey,
				"units": "metric",
			}).
			Get(p.baseURL)
	}

	if p.breaker == nil {
		resp, err := request()
		if err != nil {
			return nil, classifyTransportError(err)
		}
		return resp, nil
	}

	// Only transport failures and 5xx responses count against the breaker.
	result, err := p.breaker.Execute(func() (interface{}, error) {
		resp, err := request()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, errUpstreamServer
		}
		return resp, nil
	})

	switch {
	case err == nil, stderrors.Is(err, errUpstreamServer):
		resp, ok := result.(*resty.Response)
		if !ok {
			return nil, errors.NewProviderError(http.StatusBadGateway, "unexpected result from circuit breaker", err)
		}
		return resp, nil
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, errors.NewProviderError(http.StatusServiceUnavailable, "Weather provider temporarily unavailable", err)
	default:
		return nil, classifyTransportError(err)
	}
}

func classifyTransportError(err error) *errors.AppError {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.NewProviderError(http.StatusGatewayTimeout, "Request timed out", err)
	}
	return errors.NewProviderError(http.StatusServiceUnavailable, fmt.Sprintf("Network error: %v", err), err)
}

// parseOpenWeatherMapPayload reads the fields it needs from a generic JSON object.
// Missing or mistyped fields take zero values so partial payloads still produce a record.
func parseOpenWeatherMapPayload(body []byte) (*ports.WeatherRecord, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return nil, errors.NewProviderError(http.StatusBadGateway, "invalid response from weather provider", err)
	}

	measurements := jsonObject(payload, "main")
	conditions := jsonFirstObject(payload, "weather")
	wind := jsonObject(payload, "wind")
	sys := jsonObject(payload, "sys")

	return &ports.WeatherRecord{
		City:        jsonString(payload, "name", unknownCity),
		Country:     jsonString(sys, "country", ""),
		Temperature: jsonNumber(measurements, "temp"),
		FeelsLike:   jsonNumber(measurements, "feels_like"),
		Humidity:    int(math.Round(jsonNumber(measurements, "humidity"))),
		Pressure:    int(math.Round(jsonNumber(measurements, "pressure"))),
		WindSpeed:   jsonNumber(wind, "speed"),
		Description: jsonString(conditions, "description", ""),
		Icon:        jsonString(conditions, "icon", ""),
		Timestamp:   time.Now().UTC(),
	}, nil
}

func jsonObject(m map[string]interface{}, key string) map[string]interface{} {
	if obj, ok := m[key].(map[string]interface{}); ok {
		return obj
	}
	return nil
}

func jsonFirstObject(m map[string]interface{}, key string) map[string]interface{} {
	list, ok := m[key].([]interface{})
	if !ok || len(list) == 0 {
		return nil
	}
	if obj, ok := list[0].(map[string]interface{}); ok {
		return obj
	}
	return nil
}

func jsonNumber(m map[string]interface{}, key string) float64 {
	if n, ok := m[key].(float64); ok {
		return n
	}
	return 0
}

func jsonString(m map[string]interface{}, key, fallback string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return fallback
}
