package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"weatherproxy.app/internal/adapters/infrastructure"
	"weatherproxy.app/internal/core/weather"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

const serviceName = "weather-api"

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string                        `json:"status"`
	Service    string                        `json:"service"`
	CacheStats *ports.CacheStats             `json:"cache_stats,omitempty"`
	Components map[string]ports.HealthStatus `json:"components"`
}

// EventsResponse is the body of GET /events
type EventsResponse struct {
	Events []ports.EventRecord `json:"events"`
	Count  int                 `json:"count"`
}

type eventsQuery struct {
	City  string `form:"city" binding:"omitempty,city"`
	Limit int    `form:"limit,default=100" binding:"min=1,max=1000"`
}

// getHealth handles GET /health requests
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	ctx := c.Request.Context()
	components := s.healthChecker.CheckAll(ctx)

	response := HealthResponse{
		Status:     infrastructure.OverallStatus(components),
		Service:    serviceName,
		Components: components,
	}

	if stats, err := s.weatherUseCase.CacheStats(ctx); err == nil {
		response.CacheStats = &stats
	} else {
		s.logger.Warn("Failed to read cache stats", ports.F("error", err.Error()))
	}

	statusCode := http.StatusOK
	if response.Status == ports.HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// getEvents handles GET /events requests
func (s *HTTPServerAdapter) getEvents(c *gin.Context) {
	var query eventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.handleError(c, bindingError(err))
		return
	}

	events, err := s.weatherUseCase.Events(c.Request.Context(), weather.EventsRequest{
		City:  query.City,
		Limit: query.Limit,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, EventsResponse{Events: events, Count: len(events)})
}

// getSnapshot handles GET /snapshots/*key requests. The wildcard always starts
// with "/", so a multi-segment key is tried relative first and then absolute.
func (s *HTTPServerAdapter) getSnapshot(c *gin.Context) {
	raw := c.Param("key")
	key := strings.TrimPrefix(raw, "/")

	record, err := s.weatherUseCase.Snapshot(c.Request.Context(), key)
	if errors.IsNotFoundError(err) && strings.Contains(key, "/") {
		record, err = s.weatherUseCase.Snapshot(c.Request.Context(), raw)
	}
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}
