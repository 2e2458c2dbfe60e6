package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"weatherproxy.app/internal/ports"
)

// SnapshotStore is a mock type for the ports.SnapshotStore interface
type SnapshotStore struct {
	mock.Mock
}

func (m *SnapshotStore) Save(ctx context.Context, record *ports.WeatherRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *SnapshotStore) Load(ctx context.Context, key string) (*ports.WeatherRecord, error) {
	args := m.Called(ctx, key)
	record, _ := args.Get(0).(*ports.WeatherRecord)
	return record, args.Error(1)
}

// NewSnapshotStore creates a new instance of SnapshotStore that asserts its expectations on cleanup
func NewSnapshotStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SnapshotStore {
	m := &SnapshotStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// EventLog is a mock type for the ports.EventLog interface
type EventLog struct {
	mock.Mock
}

func (m *EventLog) Append(ctx context.Context, entry ports.EventEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *EventLog) Query(ctx context.Context, query ports.EventQuery) ([]ports.EventRecord, error) {
	args := m.Called(ctx, query)
	records, _ := args.Get(0).([]ports.EventRecord)
	return records, args.Error(1)
}

// NewEventLog creates a new instance of EventLog that asserts its expectations on cleanup
func NewEventLog(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventLog {
	m := &EventLog{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
