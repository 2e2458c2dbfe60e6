package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"weatherproxy.app/internal/ports"
)

// MetricsCollector is a mock type for the ports.MetricsCollector interface
type MetricsCollector struct {
	mock.Mock
}

func (m *MetricsCollector) RecordCacheHit(ctx context.Context) {
	m.Called(ctx)
}

func (m *MetricsCollector) RecordCacheMiss(ctx context.Context) {
	m.Called(ctx)
}

func (m *MetricsCollector) RecordProviderCall(ctx context.Context, provider, outcome string, duration time.Duration) {
	m.Called(ctx, provider, outcome, duration)
}

func (m *MetricsCollector) RecordEvent(ctx context.Context, cacheHit bool) {
	m.Called(ctx, cacheHit)
}

func (m *MetricsCollector) RecordSnapshot(ctx context.Context, success bool) {
	m.Called(ctx, success)
}

func (m *MetricsCollector) RecordRateLimited(ctx context.Context, route string) {
	m.Called(ctx, route)
}

// AllowAll accepts any metrics call
func (m *MetricsCollector) AllowAll() *MetricsCollector {
	m.On("RecordCacheHit", mock.Anything).Maybe()
	m.On("RecordCacheMiss", mock.Anything).Maybe()
	m.On("RecordProviderCall", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordEvent", mock.Anything, mock.Anything).Maybe()
	m.On("RecordSnapshot", mock.Anything, mock.Anything).Maybe()
	m.On("RecordRateLimited", mock.Anything, mock.Anything).Maybe()
	return m
}

// NewMetricsCollector creates a new instance of MetricsCollector that asserts its expectations on cleanup
func NewMetricsCollector(t interface {
	mock.TestingT
	Cleanup(func())
}) *MetricsCollector {
	m := &MetricsCollector{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// RateLimiter is a mock type for the ports.RateLimiter interface
type RateLimiter struct {
	mock.Mock
}

func (m *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitDecision, error) {
	args := m.Called(ctx, key, limit, window)
	decision, _ := args.Get(0).(ports.RateLimitDecision)
	return decision, args.Error(1)
}

// NewRateLimiter creates a new instance of RateLimiter that asserts its expectations on cleanup
func NewRateLimiter(t interface {
	mock.TestingT
	Cleanup(func())
}) *RateLimiter {
	m := &RateLimiter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// SystemHealthChecker is a mock type for the ports.SystemHealthChecker interface
type SystemHealthChecker struct {
	mock.Mock
}

func (m *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	args := m.Called(ctx)
	statuses, _ := args.Get(0).(map[string]ports.HealthStatus)
	return statuses
}

// NewSystemHealthChecker creates a new instance of SystemHealthChecker that asserts its expectations on cleanup
func NewSystemHealthChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *SystemHealthChecker {
	m := &SystemHealthChecker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
