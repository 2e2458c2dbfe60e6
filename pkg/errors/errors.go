package errors

import (
	stderrors "errors"
	"fmt"
)

// Application error types organized by category for better error handling

type ErrorType int

// Domain errors - request validation and lookups
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeLocationNotFound
	ErrorTypeRateLimited

	// Infrastructure errors - upstream provider, storage and database
	ErrorTypeInvalidCredentials
	ErrorTypeProvider
	ErrorTypeUnavailable
	ErrorTypeDatabase
	ErrorTypeStorage

	// System/Configuration Errors - errors related to system setup and configuration
	ErrorTypeConfiguration
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND_ERROR"
	case ErrorTypeLocationNotFound:
		return "LOCATION_NOT_FOUND"
	case ErrorTypeRateLimited:
		return "RATE_LIMITED"
	case ErrorTypeInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case ErrorTypeProvider:
		return "PROVIDER_ERROR"
	case ErrorTypeUnavailable:
		return "SERVICE_UNAVAILABLE"
	case ErrorTypeDatabase:
		return "DATABASE_ERROR"
	case ErrorTypeStorage:
		return "STORAGE_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Short aliases used across adapters
const (
	ValidationError         = ErrorTypeValidation
	NotFoundError           = ErrorTypeNotFound
	LocationNotFoundError   = ErrorTypeLocationNotFound
	RateLimitedError        = ErrorTypeRateLimited
	InvalidCredentialsError = ErrorTypeInvalidCredentials
	ProviderError           = ErrorTypeProvider
	UnavailableError        = ErrorTypeUnavailable
	DatabaseError           = ErrorTypeDatabase
	StorageError            = ErrorTypeStorage
	ConfigurationError      = ErrorTypeConfiguration
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error

	// Field names the offending input for validation errors.
	Field string
	// Location is the queried location for LocationNotFound.
	Location string
	// StatusCode is the upstream or mapped HTTP status for provider errors.
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Domain error constructors

// NewValidationError reports a rejected input. field may be empty.
func NewValidationError(field, reason string) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: reason,
		Field:   field,
	}
}

func NewNotFoundError(message string) *AppError {
	return New(NotFoundError, message)
}

func NewLocationNotFoundError(location string) *AppError {
	return &AppError{
		Type:       LocationNotFoundError,
		Message:    "City not found: " + location,
		Location:   location,
		StatusCode: 404,
	}
}

func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Type:       RateLimitedError,
		Message:    message,
		StatusCode: 429,
	}
}

// Infrastructure error constructors

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Type:       InvalidCredentialsError,
		Message:    "Invalid or missing API key",
		StatusCode: 401,
	}
}

// NewProviderError reports an upstream failure with the status the provider returned
// or the status the failure maps to (504 timeout, 503 network, 502 bad payload).
func NewProviderError(statusCode int, detail string, cause error) *AppError {
	return &AppError{
		Type:       ProviderError,
		Message:    detail,
		Cause:      cause,
		StatusCode: statusCode,
	}
}

func NewUnavailableError(message string) *AppError {
	return &AppError{
		Type:       UnavailableError,
		Message:    message,
		StatusCode: 503,
	}
}

func NewDatabaseError(message string, cause error) *AppError {
	return Wrap(DatabaseError, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return Wrap(StorageError, message, cause)
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// As extracts the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasType(err error, errorType ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == errorType
}

// Helper functions for error type checking
func IsNotFoundError(err error) bool {
	return hasType(err, NotFoundError)
}

func IsLocationNotFoundError(err error) bool {
	return hasType(err, LocationNotFoundError)
}

func IsValidationError(err error) bool {
	return hasType(err, ValidationError)
}

func IsRateLimitedError(err error) bool {
	return hasType(err, RateLimitedError)
}

func IsInvalidCredentialsError(err error) bool {
	return hasType(err, InvalidCredentialsError)
}

func IsProviderError(err error) bool {
	return hasType(err, ProviderError)
}

func IsUnavailableError(err error) bool {
	return hasType(err, UnavailableError)
}

func IsDatabaseError(err error) bool {
	return hasType(err, DatabaseError)
}

func IsStorageError(err error) bool {
	return hasType(err, StorageError)
}

func IsConfigurationError(err error) bool {
	return hasType(err, ConfigurationError)
}
