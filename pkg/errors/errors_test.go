package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ErrorTypeValidation, "VALIDATION_ERROR"},
		{ErrorTypeNotFound, "NOT_FOUND_ERROR"},
		{ErrorTypeLocationNotFound, "LOCATION_NOT_FOUND"},
		{ErrorTypeInvalidCredentials, "INVALID_CREDENTIALS"},
		{ErrorTypeProvider, "PROVIDER_ERROR"},
		{ErrorTypeStorage, "STORAGE_ERROR"},
		{ErrorTypeUnknown, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errorType.String())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("city", "city is required")
	assert.Equal(t, "VALIDATION_ERROR: city is required", err.Error())
	assert.Equal(t, "city", err.Field)

	cause := fmt.Errorf("disk full")
	wrapped := NewStorageError("failed to write snapshot", cause)
	assert.Contains(t, wrapped.Error(), "caused by: disk full")
	assert.ErrorIs(t, wrapped, cause)
}

func TestNewLocationNotFoundError(t *testing.T) {
	err := NewLocationNotFoundError("Atlantis")

	assert.Equal(t, "City not found: Atlantis", err.Message)
	assert.Equal(t, "Atlantis", err.Location)
	assert.True(t, IsLocationNotFoundError(err))
	assert.False(t, IsNotFoundError(err))
}

func TestNewProviderError(t *testing.T) {
	err := NewProviderError(504, "Request timed out", nil)

	assert.Equal(t, 504, err.StatusCode)
	assert.True(t, IsProviderError(err))
}

func TestIsHelpers_MatchWrappedErrors(t *testing.T) {
	base := NewInvalidCredentialsError()
	wrapped := fmt.Errorf("fetch weather: %w", base)

	assert.True(t, IsInvalidCredentialsError(wrapped))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
	assert.False(t, IsValidationError(nil))
}
