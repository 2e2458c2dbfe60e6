package ports

import "context"

// SnapshotStore persists fetched weather records as standalone JSON documents
type SnapshotStore interface {
	// Save writes the record and returns the key it can be loaded back with
	Save(ctx context.Context, record *WeatherRecord) (string, error)
	// Load returns a NotFound error when the key does not resolve to a snapshot
	Load(ctx context.Context, key string) (*WeatherRecord, error)
}
