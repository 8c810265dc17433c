// Package respond writes JSON bodies and the error envelope
// {"error":{"code","message","details"}} shared by every endpoint.
package respond

import (
	"github.com/gin-gonic/gin"

	"analysis-backend/internal/shared/telemetry"
)

// ErrorBody is the inner error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse is the envelope around ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// contextKeys are request values copied into error logs when present.
var contextKeys = map[string]string{
	"requestId":  "request_id",
	"userId":     "user_id",
	"fileId":     "file_id",
	"analysisId": "analysis_id",
	"recordId":   "record_id",
}

// JSON writes payload with status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error aborts the request with the error envelope. Client errors log at
// warn level, server errors at error level.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":  status,
		"code":    code,
		"message": message,
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
	}
	for key, field := range contextKeys {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}
