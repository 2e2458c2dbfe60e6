package weather

import (
	"context"
	"time"

	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

// UseCase runs the weather request pipeline: cache check, fetch, snapshot, cache put, event log
type UseCase struct {
	weatherProvider ports.WeatherProvider
	cache           ports.WeatherCache
	snapshots       ports.SnapshotStore
	events          ports.EventLog
	logger          ports.Logger
	metrics         ports.MetricsCollector
	now             func() time.Time
}

type UseCaseDependencies struct {
	// WeatherProvider is nil when no upstream API key is configured
	WeatherProvider ports.WeatherProvider
	Cache           ports.WeatherCache
	Snapshots       ports.SnapshotStore
	Events          ports.EventLog
	Logger          ports.Logger
	Metrics         ports.MetricsCollector
	// Clock defaults to time.Now
	Clock func() time.Time
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Cache == nil {
		return nil, errors.NewConfigurationError("cache is required", nil)
	}
	if deps.Snapshots == nil {
		return nil, errors.NewConfigurationError("snapshot store is required", nil)
	}
	if deps.Events == nil {
		return nil, errors.NewConfigurationError("event log is required", nil)
	}
	if deps.Logger == nil {
		return nil, errors.NewConfigurationError("logger is required", nil)
	}
	if deps.Metrics == nil {
		return nil, errors.NewConfigurationError("metrics is required", nil)
	}

	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	return &UseCase{
		weatherProvider: deps.WeatherProvider,
		cache:           deps.Cache,
		snapshots:       deps.Snapshots,
		events:          deps.Events,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		now:             now,
	}, nil
}

// Configured reports whether an upstream provider is available
func (uc *UseCase) Configured() bool {
	return uc.weatherProvider != nil
}

// GetWeather serves current conditions for a city, from the cache when possible.
// Only fetch errors fail the request; snapshot, cache and event log failures after a
// successful fetch are logged as warnings and earlier effects are kept.
func (uc *UseCase) GetWeather(ctx context.Context, request WeatherRequest) (*WeatherResult, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	request.NormalizeCity()
	city := request.City

	if uc.weatherProvider == nil {
		return nil, errors.NewUnavailableError("Weather service not configured")
	}

	if record, ok := uc.lookupCache(ctx, city); ok {
		uc.appendEvent(ctx, ports.EventEntry{
			Location:    record.City,
			Timestamp:   uc.now(),
			SnapshotKey: ports.CachedSnapshotKey,
			CacheHit:    true,
		})
		return &WeatherResult{Record: record, CacheHit: true, SnapshotKey: ports.CachedSnapshotKey}, nil
	}

	record, err := uc.weatherProvider.FetchWeather(ctx, city)
	if err != nil {
		uc.logger.Debug("Weather fetch failed", ports.F("city", city), ports.F("error", err.Error()))
		return nil, err
	}

	snapshotKey := uc.saveSnapshot(ctx, record)

	if err := uc.cache.Put(ctx, city, record); err != nil {
		uc.logger.Warn("Failed to cache weather record",
			ports.F("city", city),
			ports.F("error", err.Error()))
	}

	uc.appendEvent(ctx, ports.EventEntry{
		Location:    record.City,
		Timestamp:   record.Timestamp,
		SnapshotKey: snapshotKey,
		CacheHit:    false,
	})

	return &WeatherResult{Record: record, CacheHit: false, SnapshotKey: snapshotKey}, nil
}

// lookupCache treats any read error as a miss
func (uc *UseCase) lookupCache(ctx context.Context, city string) (*ports.WeatherRecord, bool) {
	record, err := uc.cache.Get(ctx, city)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Warn("Cache read failed, treating as miss",
				ports.F("city", city),
				ports.F("error", err.Error()))
		}
		return nil, false
	}
	if record == nil {
		return nil, false
	}

	uc.logger.Debug("Weather found in cache", ports.F("city", city))
	return record, true
}

func (uc *UseCase) saveSnapshot(ctx context.Context, record *ports.WeatherRecord) string {
	key, err := uc.snapshots.Save(ctx, record)
	if err != nil {
		uc.metrics.RecordSnapshot(ctx, false)
		uc.logger.Warn("Failed to save weather snapshot",
			ports.F("city", record.City),
			ports.F("error", err.Error()))
		return ""
	}

	uc.metrics.RecordSnapshot(ctx, true)
	return key
}

func (uc *UseCase) appendEvent(ctx context.Context, entry ports.EventEntry) {
	if err := uc.events.Append(ctx, entry); err != nil {
		uc.logger.Warn("Failed to append weather event",
			ports.F("city", entry.Location),
			ports.F("cache_hit", entry.CacheHit),
			ports.F("error", err.Error()))
		return
	}
	uc.metrics.RecordEvent(ctx, entry.CacheHit)
}

// CacheStats returns the current cache statistics
func (uc *UseCase) CacheStats(ctx context.Context) (ports.CacheStats, error) {
	return uc.cache.Stats(ctx)
}

// InvalidateCache drops the cached record for city and reports whether one existed
func (uc *UseCase) InvalidateCache(ctx context.Context, city string) (bool, error) {
	request := WeatherRequest{City: city}
	if err := request.Validate(); err != nil {
		return false, err
	}

	removed, err := uc.cache.Invalidate(ctx, city)
	if err != nil {
		return false, err
	}

	uc.logger.Info("Cache entry invalidated", ports.F("city", city), ports.F("removed", removed))
	return removed, nil
}

// ClearCache empties the cache and returns the number of entries removed
func (uc *UseCase) ClearCache(ctx context.Context) (int, error) {
	count, err := uc.cache.Clear(ctx)
	if err != nil {
		return 0, err
	}

	uc.logger.Info("Cache cleared", ports.F("entries", count))
	return count, nil
}

// Events returns logged requests newest first
func (uc *UseCase) Events(ctx context.Context, request EventsRequest) ([]ports.EventRecord, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return uc.events.Query(ctx, ports.EventQuery{Location: request.City, Limit: request.Limit})
}

// Snapshot loads a saved snapshot by key
func (uc *UseCase) Snapshot(ctx context.Context, key string) (*ports.WeatherRecord, error) {
	if key == "" || key == ports.CachedSnapshotKey {
		return nil, errors.NewNotFoundError("snapshot not found")
	}
	return uc.snapshots.Load(ctx, key)
}
