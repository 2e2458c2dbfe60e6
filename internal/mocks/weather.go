package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"weatherproxy.app/internal/ports"
)

// WeatherProvider is a mock type for the ports.WeatherProvider interface
type WeatherProvider struct {
	mock.Mock
}

func (m *WeatherProvider) FetchWeather(ctx context.Context, location string) (*ports.WeatherRecord, error) {
	args := m.Called(ctx, location)
	record, _ := args.Get(0).(*ports.WeatherRecord)
	return record, args.Error(1)
}

func (m *WeatherProvider) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

// NewWeatherProvider creates a new instance of WeatherProvider that asserts its expectations on cleanup
func NewWeatherProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *WeatherProvider {
	m := &WeatherProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// WeatherCache is a mock type for the ports.WeatherCache interface
type WeatherCache struct {
	mock.Mock
}

func (m *WeatherCache) Get(ctx context.Context, location string) (*ports.WeatherRecord, error) {
	args := m.Called(ctx, location)
	record, _ := args.Get(0).(*ports.WeatherRecord)
	return record, args.Error(1)
}

func (m *WeatherCache) Put(ctx context.Context, location string, record *ports.WeatherRecord) error {
	args := m.Called(ctx, location, record)
	return args.Error(0)
}

func (m *WeatherCache) Invalidate(ctx context.Context, location string) (bool, error) {
	args := m.Called(ctx, location)
	return args.Bool(0), args.Error(1)
}

func (m *WeatherCache) Clear(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *WeatherCache) Stats(ctx context.Context) (ports.CacheStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(ports.CacheStats)
	return stats, args.Error(1)
}

// NewWeatherCache creates a new instance of WeatherCache that asserts its expectations on cleanup
func NewWeatherCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *WeatherCache {
	m := &WeatherCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
