package weather

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
	"weatherproxy.app/pkg/validation"
)

// WeatherRequest represents a request for current conditions at one location
type WeatherRequest struct {
	City string
}

// Validate checks the city is present and at most MaxLocationLength characters
func (wr *WeatherRequest) Validate() error {
	city := strings.TrimSpace(wr.City)
	if city == "" {
		return errors.NewValidationError("city", "city cannot be empty")
	}
	if utf8.RuneCountInString(city) > validation.MaxLocationLength {
		return errors.NewValidationError("city",
			fmt.Sprintf("city must be at most %d characters", validation.MaxLocationLength))
	}
	return nil
}

// NormalizeCity trims surrounding whitespace; case is kept for the upstream query
func (wr *WeatherRequest) NormalizeCity() {
	wr.City = strings.TrimSpace(wr.City)
}

// WeatherResult is the pipeline response: the record and where it came from
type WeatherResult struct {
	Record   *ports.WeatherRecord
	CacheHit bool
	// SnapshotKey is the saved snapshot key, ports.CachedSnapshotKey on a cache hit,
	// or empty when saving the snapshot failed
	SnapshotKey string
}

// EventsRequest filters the event history
type EventsRequest struct {
	City  string
	Limit int
}

// Validate checks the limit lies in 1..ports.MaxEventLimit
func (er *EventsRequest) Validate() error {
	if er.Limit < 1 || er.Limit > ports.MaxEventLimit {
		return errors.NewValidationError("limit",
			fmt.Sprintf("limit must be between 1 and %d", ports.MaxEventLimit))
	}
	return nil
}
