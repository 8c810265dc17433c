package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"analysis-backend/internal/shared/metrics"
	"analysis-backend/internal/shared/server/respond"
	"analysis-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack.
// A panic after the response started only gets logged.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			route := c.FullPath()
			telemetry.Logger().Error("http.panic",
				zap.String("request_id", RequestIDFromContext(c)),
				zap.String("method", c.Request.Method),
				zap.String("route", route),
				zap.String("file_id", c.GetString("fileId")),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			metrics.IncPanic(route)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
