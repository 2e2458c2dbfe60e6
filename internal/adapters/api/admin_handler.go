package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherproxy.app/internal/ports"
)

// invalidateCache handles DELETE /cache/:city requests
func (s *HTTPServerAdapter) invalidateCache(c *gin.Context) {
	city := c.Param("city")

	removed, err := s.weatherUseCase.InvalidateCache(c.Request.Context(), city)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invalidated": removed})
}

// clearCache handles DELETE /cache requests
func (s *HTTPServerAdapter) clearCache(c *gin.Context) {
	count, err := s.weatherUseCase.ClearCache(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	s.logger.Info("Cache cleared through admin API",
		ports.F("request_id", c.GetString(requestIDKey)),
		ports.F("entries", count))
	c.JSON(http.StatusOK, gin.H{"cleared": count})
}
