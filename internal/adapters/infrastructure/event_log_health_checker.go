package infrastructure

import (
	"context"
	"time"

	"weatherproxy.app/internal/ports"
)

// Pinger is implemented by stores that can verify their backend connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventLogHealthChecker reports whether the event log backend answers a ping
type EventLogHealthChecker struct {
	store  Pinger
	driver string
	now    func() time.Time
}

func NewEventLogHealthChecker(store Pinger, driver string) *EventLogHealthChecker {
	return &EventLogHealthChecker{store: store, driver: driver, now: time.Now}
}

func (e *EventLogHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	details := map[string]interface{}{"driver": e.driver}

	if e.store == nil {
		return ports.HealthStatus{
			Component: "event_log",
			Status:    ports.HealthStatusUnhealthy,
			Error:     "event log is not configured",
			Details:   details,
		}
	}

	started := e.now()
	err := e.store.Ping(ctx)
	details["latency_ms"] = e.now().Sub(started).Milliseconds()

	if err != nil {
		return ports.HealthStatus{
			Component: "event_log",
			Status:    ports.HealthStatusUnhealthy,
			Error:     err.Error(),
			Details:   details,
		}
	}

	return ports.HealthStatus{
		Component: "event_log",
		Status:    ports.HealthStatusHealthy,
		Details:   details,
	}
}
