package weather

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"weatherproxy.app/pkg/errors"
)

func TestWeatherRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request WeatherRequest
		wantErr bool
		errMsg  string
	}{
		{"ValidRequest", WeatherRequest{City: "London"}, false, ""},
		{"SingleCharacter", WeatherRequest{City: "A"}, false, ""},
		{"MaxLength", WeatherRequest{City: strings.Repeat("a", 100)}, false, ""},
		{"MaxLengthMultibyte", WeatherRequest{City: strings.Repeat("ł", 100)}, false, ""},
		{"SurroundingWhitespace", WeatherRequest{City: "  Paris  "}, false, ""},
		{"EmptyCity", WeatherRequest{City: ""}, true, "city cannot be empty"},
		{"WhitespaceOnlyCity", WeatherRequest{City: " \t "}, true, "city cannot be empty"},
		{"TooLong", WeatherRequest{City: strings.Repeat("a", 101)}, true, "at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.errMsg)
			appErr, ok := errors.As(err)
			if assert.True(t, ok) {
				assert.Equal(t, "city", appErr.Field)
			}
		})
	}
}

func TestWeatherRequest_NormalizeCity(t *testing.T) {
	request := WeatherRequest{City: "  New York \n"}
	request.NormalizeCity()
	assert.Equal(t, "New York", request.City)
}

func TestEventsRequest_Validate(t *testing.T) {
	for _, limit := range []int{1, 100, 1000} {
		request := EventsRequest{Limit: limit}
		assert.NoError(t, request.Validate(), "limit %d", limit)
	}

	for _, limit := range []int{0, -5, 1001} {
		request := EventsRequest{Limit: limit}
		assert.True(t, errors.IsValidationError(request.Validate()), "limit %d", limit)
	}
}
