package ports

import (
	"context"
	"time"
)

// WeatherRecord is a normalized current-conditions observation for one location.
// Records are not modified after the fetcher builds them.
type WeatherRecord struct {
	City        string    `json:"city" yaml:"city"`
	Country     string    `json:"country" yaml:"country"`
	Temperature float64   `json:"temperature" yaml:"temperature"`
	FeelsLike   float64   `json:"feels_like" yaml:"feels_like"`
	Humidity    int       `json:"humidity" yaml:"humidity"`
	Pressure    int       `json:"pressure" yaml:"pressure"`
	WindSpeed   float64   `json:"wind_speed" yaml:"wind_speed"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// CacheStats describes the weather cache contents
type CacheStats struct {
	TotalEntries  int `json:"total_entries" yaml:"total_entries"`
	ActiveEntries int `json:"active_entries" yaml:"active_entries"`
	TTLSeconds    int `json:"ttl_seconds" yaml:"ttl_seconds"`
}

// WeatherProvider defines the contract for weather data providers
type WeatherProvider interface {
	FetchWeather(ctx context.Context, location string) (*WeatherRecord, error)
	GetProviderName() string
}

// WeatherCache defines the contract for caching weather records by location.
// Implementations normalize the location so case and surrounding whitespace do not matter.
type WeatherCache interface {
	Get(ctx context.Context, location string) (*WeatherRecord, error)
	Put(ctx context.Context, location string, record *WeatherRecord) error
	Invalidate(ctx context.Context, location string) (bool, error)
	Clear(ctx context.Context) (int, error)
	Stats(ctx context.Context) (CacheStats, error)
}
