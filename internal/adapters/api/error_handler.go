package api

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"weatherproxy.app/internal/ports"
	errorspkg "weatherproxy.app/pkg/errors"
	"weatherproxy.app/pkg/validation"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
	Field string `json:"field,omitempty"`
	City  string `json:"city,omitempty"`
}

// handleError maps application errors to HTTP status codes
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	appErr, ok := errorspkg.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	response := ErrorResponse{Error: appErr.Message, Type: appErr.Type.String()}
	var statusCode int

	switch appErr.Type {
	case errorspkg.ValidationError:
		statusCode = http.StatusUnprocessableEntity
		response.Field = appErr.Field
	case errorspkg.LocationNotFoundError:
		statusCode = http.StatusNotFound
		response.City = appErr.Location
	case errorspkg.NotFoundError:
		statusCode = http.StatusNotFound
	case errorspkg.InvalidCredentialsError:
		statusCode = http.StatusUnauthorized
	case errorspkg.ProviderError:
		statusCode = http.StatusBadGateway
		if appErr.StatusCode >= 400 && appErr.StatusCode <= 599 {
			statusCode = appErr.StatusCode
		}
	case errorspkg.UnavailableError:
		statusCode = http.StatusServiceUnavailable
	case errorspkg.RateLimitedError:
		statusCode = http.StatusTooManyRequests
	default:
		statusCode = http.StatusInternalServerError
		response = ErrorResponse{Error: "Internal server error", Type: appErr.Type.String()}
	}

	if statusCode >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			ports.F("request_id", c.GetString(requestIDKey)),
			ports.F("status", statusCode),
			ports.F("error", err.Error()))
	}

	c.JSON(statusCode, response)
}

// bindingError converts gin binding failures into validation errors
func bindingError(err error) error {
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errorspkg.NewValidationError("query", "invalid query parameters")
	}

	fe := validationErrors[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return errorspkg.NewValidationError(field, fmt.Sprintf("%s parameter is required", field))
	case cityTag:
		return errorspkg.NewValidationError(field,
			fmt.Sprintf("%s must be between 1 and %d characters", field, validation.MaxLocationLength))
	case "min":
		return errorspkg.NewValidationError(field, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "max":
		return errorspkg.NewValidationError(field, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	default:
		return errorspkg.NewValidationError(field, fmt.Sprintf("%s is invalid", field))
	}
}
