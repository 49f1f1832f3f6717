package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/telemetry"
)

const (
	// EntityIDKey is set by handlers to tag the request log with the record touched.
	EntityIDKey = "entityId"
	storageKey  = "storageBackend"
)

// StorageBackend tags the request with the backend serving it.
func StorageBackend(active func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if active != nil {
			c.Set(storageKey, active())
		}
		c.Next()
	}
}

// Logging emits a structured log per request and records its latency.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		durationMs := float64(latency.Microseconds()) / 1000.0
		metrics.ObserveRequestDurationMs(durationMs)

		entityID, _ := c.Get(EntityIDKey)
		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": durationMs,
			"user_id":     UserIDFromContext(c),
			"role":        UserRoleFromContext(c),
			"entity_id":   entityID,
			"storage":     c.GetString(storageKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
