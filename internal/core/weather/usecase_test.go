package weather

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"weatherproxy.app/internal/adapters/external"
	"weatherproxy.app/internal/mocks"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type pipelineMocks struct {
	provider  *mocks.WeatherProvider
	cache     *mocks.WeatherCache
	snapshots *mocks.SnapshotStore
	events    *mocks.EventLog
	logger    *mocks.Logger
	metrics   *mocks.MetricsCollector
}

func newPipelineMocks(t *testing.T) *pipelineMocks {
	return &pipelineMocks{
		provider:  mocks.NewWeatherProvider(t),
		cache:     mocks.NewWeatherCache(t),
		snapshots: mocks.NewSnapshotStore(t),
		events:    mocks.NewEventLog(t),
		logger:    mocks.NewLogger(t).AllowAll(),
		metrics:   mocks.NewMetricsCollector(t).AllowAll(),
	}
}

func (m *pipelineMocks) useCase(t *testing.T) *UseCase {
	uc, err := NewUseCase(UseCaseDependencies{
		WeatherProvider: m.provider,
		Cache:           m.cache,
		Snapshots:       m.snapshots,
		Events:          m.events,
		Logger:          m.logger,
		Metrics:         m.metrics,
		Clock:           func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return uc
}

func londonRecord() *ports.WeatherRecord {
	return &ports.WeatherRecord{
		City:        "London",
		Country:     "GB",
		Temperature: 14.2,
		Humidity:    81,
		Pressure:    1009,
		Description: "overcast clouds",
		Timestamp:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestUseCase_GetWeather_CacheMiss(t *testing.T) {
	m := newPipelineMocks(t)
	record := londonRecord()

	var order []string
	m.cache.On("Get", mock.Anything, "London").Return(nil, errors.NewNotFoundError("cache miss")).Once()
	m.provider.On("FetchWeather", mock.Anything, "London").Return(record, nil).Once()
	m.snapshots.On("Save", mock.Anything, record).
		Run(func(mock.Arguments) { order = append(order, "snapshot") }).
		Return("data/london_20240501_090000.json", nil).Once()
	m.cache.On("Put", mock.Anything, "London", record).
		Run(func(mock.Arguments) { order = append(order, "cache") }).
		Return(nil).Once()
	m.events.On("Append", mock.Anything, ports.EventEntry{
		Location:    "London",
		Timestamp:   record.Timestamp,
		SnapshotKey: "data/london_20240501_090000.json",
		CacheHit:    false,
	}).Run(func(mock.Arguments) { order = append(order, "event") }).Return(nil).Once()

	result, err := m.useCase(t).GetWeather(context.Background(), WeatherRequest{City: "  London "})
	require.NoError(t, err)

	assert.Same(t, record, result.Record)
	assert.False(t, result.CacheHit)
	assert.Equal(t, "data/london_20240501_090000.json", result.SnapshotKey)
	assert.Equal(t, []string{"snapshot", "cache", "event"}, order)
}

func TestUseCase_GetWeather_CacheHit(t *testing.T) {
	m := newPipelineMocks(t)
	record := londonRecord()

	m.cache.On("Get", mock.Anything, "LONDON").Return(record, nil).Once()
	m.events.On("Append", mock.Anything, ports.EventEntry{
		Location:    "London",
		Timestamp:   fixedNow,
		SnapshotKey: ports.CachedSnapshotKey,
		CacheHit:    true,
	}).Return(nil).Once()

	result, err := m.useCase(t).GetWeather(context.Background(), WeatherRequest{City: "LONDON"})
	require.NoError(t, err)

	assert.True(t, result.CacheHit)
	assert.Equal(t, ports.CachedSnapshotKey, result.SnapshotKey)
	assert.Same(t, record, result.Record)
	m.provider.AssertNotCalled(t, "FetchWeather", mock.Anything, mock.Anything)
	m.snapshots.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUseCase_GetWeather_FetchErrorLeavesNoTrace(t *testing.T) {
	fetchErrors := map[string]error{
		"LocationNotFound":   errors.NewLocationNotFoundError("Nowherestan"),
		"InvalidCredentials": errors.NewInvalidCredentialsError(),
		"ProviderError":      errors.NewProviderError(500, "API error: boom", nil),
		"Timeout":            errors.NewProviderError(504, "Request timed out", nil),
	}

	for name, fetchErr := range fetchErrors {
		t.Run(name, func(t *testing.T) {
			m := newPipelineMocks(t)
			m.cache.On("Get", mock.Anything, "Nowherestan").Return(nil, errors.NewNotFoundError("cache miss")).Once()
			m.provider.On("FetchWeather", mock.Anything, "Nowherestan").Return(nil, fetchErr).Once()

			result, err := m.useCase(t).GetWeather(context.Background(), WeatherRequest{City: "Nowherestan"})
			assert.Nil(t, result)
			assert.Same(t, fetchErr, err, "fetch errors are returned unchanged")

			m.cache.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
			m.events.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
			m.snapshots.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestUseCase_GetWeather_PartialFailuresAreWarnings(t *testing.T) {
	m := newPipelineMocks(t)
	m.logger = mocks.NewLogger(t)
	m.logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	m.logger.On("Warn", "Failed to save weather snapshot", mock.Anything).Once()
	m.logger.On("Warn", "Failed to cache weather record", mock.Anything).Once()
	m.logger.On("Warn", "Failed to append weather event", mock.Anything).Once()

	m.metrics = mocks.NewMetricsCollector(t)
	m.metrics.On("RecordSnapshot", mock.Anything, false).Once()

	record := londonRecord()
	m.cache.On("Get", mock.Anything, "London").Return(nil, errors.NewNotFoundError("cache miss")).Once()
	m.provider.On("FetchWeather", mock.Anything, "London").Return(record, nil).Once()
	m.snapshots.On("Save", mock.Anything, record).Return("", errors.NewStorageError("disk full", nil)).Once()
	m.cache.On("Put", mock.Anything, "London", record).Return(stderrors.New("redis down")).Once()
	m.events.On("Append", mock.Anything, mock.MatchedBy(func(e ports.EventEntry) bool {
		return e.SnapshotKey == "" && !e.CacheHit
	})).Return(errors.NewDatabaseError("locked", nil)).Once()

	result, err := m.useCase(t).GetWeather(context.Background(), WeatherRequest{City: "London"})
	require.NoError(t, err)
	assert.Same(t, record, result.Record)
	assert.Equal(t, "", result.SnapshotKey)
	assert.False(t, result.CacheHit)
}

func TestUseCase_GetWeather_CacheReadErrorIsMiss(t *testing.T) {
	m := newPipelineMocks(t)
	record := londonRecord()

	m.cache.On("Get", mock.Anything, "London").Return(nil, errors.NewStorageError("redis get operation failed", nil)).Once()
	m.provider.On("FetchWeather", mock.Anything, "London").Return(record, nil).Once()
	m.snapshots.On("Save", mock.Anything, record).Return("key.json", nil).Once()
	m.cache.On("Put", mock.Anything, "London", record).Return(nil).Once()
	m.events.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := m.useCase(t).GetWeather(context.Background(), WeatherRequest{City: "London"})
	require.NoError(t, err)
	assert.False(t, result.CacheHit)
}

func TestUseCase_GetWeather_ValidationError(t *testing.T) {
	m := newPipelineMocks(t)
	uc := m.useCase(t)

	for _, city := range []string{"", "   "} {
		_, err := uc.GetWeather(context.Background(), WeatherRequest{City: city})
		assert.True(t, errors.IsValidationError(err))
	}

	m.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestUseCase_GetWeather_NotConfigured(t *testing.T) {
	m := newPipelineMocks(t)
	uc, err := NewUseCase(UseCaseDependencies{
		Cache:     m.cache,
		Snapshots: m.snapshots,
		Events:    m.events,
		Logger:    m.logger,
		Metrics:   m.metrics,
	})
	require.NoError(t, err)
	assert.False(t, uc.Configured())

	_, err = uc.GetWeather(context.Background(), WeatherRequest{City: "Paris"})
	assert.True(t, errors.IsUnavailableError(err))

	m.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	m.events.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

// London then LONDON through a real in-memory cache
func TestUseCase_GetWeather_CaseInsensitiveScenario(t *testing.T) {
	m := newPipelineMocks(t)
	cache := external.NewWeatherCacheAdapter(external.NewMemoryCacheProvider(), 5*time.Minute, m.metrics)
	record := londonRecord()

	var logged []ports.EventEntry
	m.provider.On("FetchWeather", mock.Anything, "London").Return(record, nil).Once()
	m.snapshots.On("Save", mock.Anything, record).Return("data/london_20240501_090000.json", nil).Once()
	m.events.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { logged = append(logged, args.Get(1).(ports.EventEntry)) }).
		Return(nil).Twice()

	uc, err := NewUseCase(UseCaseDependencies{
		WeatherProvider: m.provider,
		Cache:           cache,
		Snapshots:       m.snapshots,
		Events:          m.events,
		Logger:          m.logger,
		Metrics:         m.metrics,
		Clock:           func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	ctx := context.Background()

	first, err := uc.GetWeather(ctx, WeatherRequest{City: "London"})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, "data/london_20240501_090000.json", first.SnapshotKey)

	second, err := uc.GetWeather(ctx, WeatherRequest{City: "LONDON"})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, ports.CachedSnapshotKey, second.SnapshotKey)
	assert.Equal(t, record.Temperature, second.Record.Temperature)

	require.Len(t, logged, 2)
	assert.False(t, logged[0].CacheHit)
	assert.True(t, logged[1].CacheHit)

	stats, err := uc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 300, stats.TTLSeconds)
}

func TestUseCase_CacheAdministration(t *testing.T) {
	m := newPipelineMocks(t)
	uc := m.useCase(t)
	ctx := context.Background()

	m.cache.On("Invalidate", mock.Anything, "Berlin").Return(true, nil).Once()
	removed, err := uc.InvalidateCache(ctx, "Berlin")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = uc.InvalidateCache(ctx, " ")
	assert.True(t, errors.IsValidationError(err))

	m.cache.On("Clear", mock.Anything).Return(4, nil).Once()
	count, err := uc.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	m.cache.On("Clear", mock.Anything).Return(0, errors.NewStorageError("scan failed", nil)).Once()
	_, err = uc.ClearCache(ctx)
	assert.True(t, errors.IsStorageError(err))
}

func TestUseCase_Events(t *testing.T) {
	m := newPipelineMocks(t)
	uc := m.useCase(t)
	ctx := context.Background()

	stored := []ports.EventRecord{{ID: 2, Location: "oslo"}, {ID: 1, Location: "oslo"}}
	m.events.On("Query", mock.Anything, ports.EventQuery{Location: "Oslo", Limit: 50}).Return(stored, nil).Once()

	events, err := uc.Events(ctx, EventsRequest{City: "Oslo", Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, stored, events)

	_, err = uc.Events(ctx, EventsRequest{Limit: 0})
	assert.True(t, errors.IsValidationError(err))
}

func TestUseCase_Snapshot(t *testing.T) {
	m := newPipelineMocks(t)
	uc := m.useCase(t)
	ctx := context.Background()

	record := londonRecord()
	m.snapshots.On("Load", mock.Anything, "london.json").Return(record, nil).Once()

	loaded, err := uc.Snapshot(ctx, "london.json")
	require.NoError(t, err)
	assert.Same(t, record, loaded)

	for _, key := range []string{"", ports.CachedSnapshotKey} {
		_, err := uc.Snapshot(ctx, key)
		assert.True(t, errors.IsNotFoundError(err))
	}
}

func TestNewUseCase_RequiresDependencies(t *testing.T) {
	m := newPipelineMocks(t)
	full := UseCaseDependencies{
		Cache:     m.cache,
		Snapshots: m.snapshots,
		Events:    m.events,
		Logger:    m.logger,
		Metrics:   m.metrics,
	}

	tests := map[string]func(d *UseCaseDependencies){
		"Cache":     func(d *UseCaseDependencies) { d.Cache = nil },
		"Snapshots": func(d *UseCaseDependencies) { d.Snapshots = nil },
		"Events":    func(d *UseCaseDependencies) { d.Events = nil },
		"Logger":    func(d *UseCaseDependencies) { d.Logger = nil },
		"Metrics":   func(d *UseCaseDependencies) { d.Metrics = nil },
	}

	for name, drop := range tests {
		t.Run(name, func(t *testing.T) {
			deps := full
			drop(&deps)
			uc, err := NewUseCase(deps)
			assert.Nil(t, uc)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}
