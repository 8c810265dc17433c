package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/shared/metrics"
	"analysis-backend/internal/shared/telemetry"
)

// Logging logs one "request.complete" line per request and records its
// latency. Paths in quiet (health probes, scrapes) are measured but not
// logged unless they fail.
func Logging(quiet ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, status, latency)

		if _, ok := skip[c.Request.URL.Path]; ok && status < http.StatusInternalServerError {
			return
		}

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       route,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuest(c),
			"client_ip":   c.ClientIP(),
		}
		for key, field := range map[string]string{
			"fileId":           "file_id",
			"analysisId":       "analysis_id",
			"recordId":         "record_id",
			"statusTransition": "status_transition",
		} {
			fields[field] = c.GetString(key)
		}

		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
