package ports

import (
	"context"
	"time"
)

const (
	// CachedSnapshotKey marks events served from the cache
	CachedSnapshotKey = "cached"

	DefaultEventLimit = 100
	MaxEventLimit     = 1000
)

// EventEntry is one request outcome to append to the event log
type EventEntry struct {
	Location    string
	Timestamp   time.Time
	SnapshotKey string
	CacheHit    bool
}

// EventRecord is a stored event
type EventRecord struct {
	ID          uint      `json:"id" yaml:"id"`
	Location    string    `json:"city" yaml:"city"`
	Timestamp   string    `json:"timestamp" yaml:"timestamp"`
	SnapshotKey string    `json:"snapshot_key" yaml:"snapshot_key"`
	CacheHit    bool      `json:"cached" yaml:"cached"`
	InsertedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// EventQuery filters the event log. An empty Location matches every event.
type EventQuery struct {
	Location string
	Limit    int
}

// EventLog defines the contract for the append-only request log
type EventLog interface {
	Append(ctx context.Context, entry EventEntry) error
	// Query returns the newest events first
	Query(ctx context.Context, query EventQuery) ([]EventRecord, error)
}
