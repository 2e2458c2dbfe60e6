package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
	"weatherproxy.app/pkg/validation"
)

// EventTimestampLayout is the ISO-8601 form stored in the timestamp column.
// Fixed width keeps string order equal to time order.
const EventTimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// WeatherEventModel represents one served request in the event log
type WeatherEventModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Location    string    `gorm:"index;not null"`
	Timestamp   string    `gorm:"index;not null"`
	SnapshotKey string    `gorm:"not null;default:''"`
	CacheHit    bool      `gorm:"not null;default:false"`
	InsertedAt  time.Time `gorm:"autoCreateTime"`
}

func (WeatherEventModel) TableName() string {
	return "weather_events"
}

// EventLogRepositoryAdapter implements the EventLog port using GORM.
// The table is created on first use; a failed migration is retried by the next call.
type EventLogRepositoryAdapter struct {
	db *gorm.DB

	initMu      sync.Mutex
	initialized bool
}

// NewEventLogRepositoryAdapter creates a new event log repository adapter
func NewEventLogRepositoryAdapter(db *gorm.DB) (*EventLogRepositoryAdapter, error) {
	if db == nil {
		return nil, errors.NewConfigurationError("event log database cannot be nil", nil)
	}
	return &EventLogRepositoryAdapter{db: db}, nil
}

func (r *EventLogRepositoryAdapter) ensureSchema(ctx context.Context) error {
	r.initMu.Lock()
	defer r.initMu.Unlock()

	if r.initialized {
		return nil
	}

	if err := r.db.WithContext(ctx).AutoMigrate(&WeatherEventModel{}); err != nil {
		return errors.NewDatabaseError("failed to initialize event log schema", err)
	}

	r.initialized = true
	return nil
}

// Append records one request outcome
func (r *EventLogRepositoryAdapter) Append(ctx context.Context, entry ports.EventEntry) error {
	location := validation.NormalizeLocation(entry.Location)
	if location == "" {
		return errors.NewValidationError("city", "event location cannot be empty")
	}

	if err := r.ensureSchema(ctx); err != nil {
		return err
	}

	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	model := &WeatherEventModel{
		Location:    location,
		Timestamp:   timestamp.UTC().Format(EventTimestampLayout),
		SnapshotKey: entry.SnapshotKey,
		CacheHit:    entry.CacheHit,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.NewDatabaseError("failed to append event", err)
	}

	return nil
}

// Query returns events newest first, optionally for a single location
func (r *EventLogRepositoryAdapter) Query(ctx context.Context, query ports.EventQuery) ([]ports.EventRecord, error) {
	if query.Limit < 1 || query.Limit > ports.MaxEventLimit {
		return nil, errors.NewValidationError("limit",
			fmt.Sprintf("limit must be between 1 and %d", ports.MaxEventLimit))
	}

	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).Model(&WeatherEventModel{})
	if location := validation.NormalizeLocation(query.Location); location != "" {
		tx = tx.Where("location = ?", location)
	}

	var models []WeatherEventModel
	if err := tx.Order("id DESC").Limit(query.Limit).Find(&models).Error; err != nil {
		return nil, errors.NewDatabaseError("failed to query events", err)
	}

	records := make([]ports.EventRecord, 0, len(models))
	for i := range models {
		records = append(records, r.modelToRecord(&models[i]))
	}

	return records, nil
}

// Ping verifies database connectivity
func (r *EventLogRepositoryAdapter) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *EventLogRepositoryAdapter) modelToRecord(model *WeatherEventModel) ports.EventRecord {
	return ports.EventRecord{
		ID:          model.ID,
		Location:    model.Location,
		Timestamp:   model.Timestamp,
		SnapshotKey: model.SnapshotKey,
		CacheHit:    model.CacheHit,
		InsertedAt:  model.InsertedAt,
	}
}
