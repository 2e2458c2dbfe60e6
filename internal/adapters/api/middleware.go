package api

import (
	"crypto/subtle"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"weatherproxy.app/internal/adapters/ratelimit"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	adminKeyHeader  = "X-API-Key"
)

// requestID propagates the caller's request id or assigns a new one
func (s *HTTPServerAdapter) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *HTTPServerAdapter) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []ports.Field{
			ports.F("request_id", c.GetString(requestIDKey)),
			ports.F("method", c.Request.Method),
			ports.F("path", c.Request.URL.Path),
			ports.F("status", c.Writer.Status()),
			ports.F("duration_ms", time.Since(start).Milliseconds()),
			ports.F("client", ratelimit.ClientIdentifier(c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr)),
		}

		switch {
		case c.Writer.Status() >= 500:
			s.logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= 400:
			s.logger.Warn("HTTP request", fields...)
		default:
			s.logger.Info("HTTP request", fields...)
		}
	}
}

// rateLimit counts requests per client against rule within the named route group
func (s *HTTPServerAdapter) rateLimit(route string, rule ports.RateLimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.rateLimits.Enabled || s.rateLimiter == nil {
			c.Next()
			return
		}

		client := ratelimit.ClientIdentifier(c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr)
		decision, err := s.rateLimiter.Allow(c.Request.Context(), route+":"+client, rule.Limit, rule.Window)
		if err != nil {
			s.logger.Warn("Rate limiter failed, allowing request",
				ports.F("route", route),
				ports.F("client", client),
				ports.F("error", err.Error()))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			s.metricsCollector.RecordRateLimited(c.Request.Context(), route)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			s.handleError(c, errors.NewRateLimitedError("Rate limit exceeded"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// requireAdminKey rejects requests without the configured admin key
func (s *HTTPServerAdapter) requireAdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.config.AdminAPIKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin endpoints are disabled", Type: "FORBIDDEN"})
			return
		}

		provided := c.GetHeader(adminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.config.AdminAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or missing admin API key", Type: "UNAUTHORIZED"})
			return
		}

		c.Next()
	}
}
