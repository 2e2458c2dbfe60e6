package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherproxy.app/internal/core/weather"
	"weatherproxy.app/internal/ports"
)

type weatherQuery struct {
	City string `form:"city" binding:"required,city"`
}

// WeatherResponse represents the HTTP response for weather data
type WeatherResponse struct {
	Data        *ports.WeatherRecord `json:"data"`
	Cached      bool                 `json:"cached"`
	SnapshotKey string               `json:"snapshot_key"`
}

// getWeather handles GET /weather requests
func (s *HTTPServerAdapter) getWeather(c *gin.Context) {
	var query weatherQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.handleError(c, bindingError(err))
		return
	}

	result, err := s.weatherUseCase.GetWeather(c.Request.Context(), weather.WeatherRequest{City: query.City})
	if err != nil {
		s.logger.Debug("Weather request failed",
			ports.F("request_id", c.GetString(requestIDKey)),
			ports.F("city", query.City),
			ports.F("error", err.Error()))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, WeatherResponse{
		Data:        result.Record,
		Cached:      result.CacheHit,
		SnapshotKey: result.SnapshotKey,
	})
}
