// Package storage provides SnapshotStore adapters that persist fetched
// weather records as standalone pretty-printed JSON documents.
package storage

import (
	"encoding/json"
	"strings"

	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

const snapshotTimeLayout = "20060102_150405"

// SnapshotName derives the document name from the record city and its UTC capture time,
// e.g. "new_york_20240101_120000.json".
func SnapshotName(record *ports.WeatherRecord) string {
	city := strings.ReplaceAll(strings.ToLower(record.City), " ", "_")
	return city + "_" + record.Timestamp.UTC().Format(snapshotTimeLayout) + ".json"
}

func encodeSnapshot(record *ports.WeatherRecord) ([]byte, error) {
	if record == nil {
		return nil, errors.NewValidationError("record", "snapshot record cannot be nil")
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, errors.NewStorageError("failed to encode snapshot", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*ports.WeatherRecord, error) {
	var record ports.WeatherRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.NewStorageError("failed to decode snapshot", err)
	}
	return &record, nil
}
