package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	MinLocationLength = 1
	MaxLocationLength = 100
)

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// IsValidLocation reports whether a location query has a usable length in characters
func IsValidLocation(location string) bool {
	trimmed, ok := TrimAndValidate(location)
	if !ok {
		return false
	}
	n := utf8.RuneCountInString(trimmed)
	return n >= MinLocationLength && n <= MaxLocationLength
}

// NormalizeLocation produces the canonical cache and event log form of a location
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
