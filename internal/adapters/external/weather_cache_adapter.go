package external

import (
	"context"
	"encoding/json"
	"time"

	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
	"weatherproxy.app/pkg/validation"
)

const weatherKeyPrefix = "weather:"

// WeatherCacheAdapter bridges generic CacheProvider to weather-specific WeatherCache
type WeatherCacheAdapter struct {
	cacheProvider ports.CacheProvider
	ttl           time.Duration
	metrics       ports.CacheMetrics
}

// NewWeatherCacheAdapter creates a weather cache storing records for ttl. metrics may be nil.
func NewWeatherCacheAdapter(cacheProvider ports.CacheProvider, ttl time.Duration, metrics ports.CacheMetrics) ports.WeatherCache {
	return &WeatherCacheAdapter{
		cacheProvider: cacheProvider,
		ttl:           ttl,
		metrics:       metrics,
	}
}

// WeatherCacheKey is the provider key for a location
func WeatherCacheKey(location string) string {
	return weatherKeyPrefix + validation.NormalizeLocation(location)
}

func (w *WeatherCacheAdapter) key(location string) (string, error) {
	if !validation.IsNotEmpty(location) {
		return "", errors.NewValidationError("city", "location cannot be empty")
	}
	return WeatherCacheKey(location), nil
}

// Get retrieves a weather record from cache
func (w *WeatherCacheAdapter) Get(ctx context.Context, location string) (*ports.WeatherRecord, error) {
	key, err := w.key(location)
	if err != nil {
		return nil, err
	}

	data, err := w.cacheProvider.Get(ctx, key)
	if err != nil {
		if errors.IsNotFoundError(err) {
			w.recordMiss(ctx)
		}
		return nil, err
	}

	var record ports.WeatherRecord
	if err := json.Unmarshal(data, &record); err != nil {
		w.recordMiss(ctx)
		return nil, errors.NewStorageError("failed to deserialize cached weather record", err)
	}

	w.recordHit(ctx)
	return &record, nil
}

// Put stores a weather record, overwriting any entry for the same location
func (w *WeatherCacheAdapter) Put(ctx context.Context, location string, record *ports.WeatherRecord) error {
	if record == nil {
		return errors.NewValidationError("record", "weather record cannot be nil")
	}
	key, err := w.key(location)
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.NewStorageError("failed to serialize weather record", err)
	}

	return w.cacheProvider.Set(ctx, key, data, w.ttl)
}

// Invalidate removes the entry for a location
func (w *WeatherCacheAdapter) Invalidate(ctx context.Context, location string) (bool, error) {
	key, err := w.key(location)
	if err != nil {
		return false, err
	}
	return w.cacheProvider.Delete(ctx, key)
}

// Clear removes every cached record and returns how many there were
func (w *WeatherCacheAdapter) Clear(ctx context.Context) (int, error) {
	return w.cacheProvider.Clear(ctx)
}

// Stats reports entry counts and the configured TTL
func (w *WeatherCacheAdapter) Stats(ctx context.Context) (ports.CacheStats, error) {
	stats, err := w.cacheProvider.Stats(ctx)
	if err != nil {
		return ports.CacheStats{}, err
	}

	return ports.CacheStats{
		TotalEntries:  stats.Total,
		ActiveEntries: stats.Active,
		TTLSeconds:    int(w.ttl / time.Second),
	}, nil
}

func (w *WeatherCacheAdapter) recordHit(ctx context.Context) {
	if w.metrics != nil {
		w.metrics.RecordCacheHit(ctx)
	}
}

func (w *WeatherCacheAdapter) recordMiss(ctx context.Context) {
	if w.metrics != nil {
		w.metrics.RecordCacheMiss(ctx)
	}
}
