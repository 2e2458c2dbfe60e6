package infrastructure

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// PrometheusMetricsCollector implements the MetricsCollector port on its own registry
type PrometheusMetricsCollector struct {
	registry *prometheus.Registry

	cacheRequests  *prometheus.CounterVec
	providerCalls  *prometheus.CounterVec
	providerTiming *prometheus.HistogramVec
	events         *prometheus.CounterVec
	snapshots      *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
}

// NewPrometheusMetricsCollector registers the weather proxy metrics plus Go runtime and process collectors
func NewPrometheusMetricsCollector() *PrometheusMetricsCollector {
	m := &PrometheusMetricsCollector{
		registry: prometheus.NewRegistry(),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_cache_requests_total",
				Help: "Cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_provider_requests_total",
				Help: "Upstream weather provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		providerTiming: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_provider_request_duration_seconds",
				Help:    "Upstream weather provider call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_events_logged_total",
				Help: "Events appended to the event log",
			},
			[]string{"cached"},
		),
		snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_snapshots_total",
				Help: "Snapshot save attempts by result",
			},
			[]string{"result"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_rate_limited_requests_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		m.cacheRequests,
		m.providerCalls,
		m.providerTiming,
		m.events,
		m.snapshots,
		m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the registry for the /metrics handler
func (m *PrometheusMetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetricsCollector) RecordCacheHit(ctx context.Context) {
	m.cacheRequests.WithLabelValues("hit").Inc()
}

func (m *PrometheusMetricsCollector) RecordCacheMiss(ctx context.Context) {
	m.cacheRequests.WithLabelValues("miss").Inc()
}

func (m *PrometheusMetricsCollector) RecordProviderCall(ctx context.Context, provider, outcome string, duration time.Duration) {
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
	m.providerTiming.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *PrometheusMetricsCollector) RecordEvent(ctx context.Context, cacheHit bool) {
	m.events.WithLabelValues(strconv.FormatBool(cacheHit)).Inc()
}

func (m *PrometheusMetricsCollector) RecordSnapshot(ctx context.Context, success bool) {
	result := "saved"
	if !success {
		result = "failed"
	}
	m.snapshots.WithLabelValues(result).Inc()
}

func (m *PrometheusMetricsCollector) RecordRateLimited(ctx context.Context, route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}
