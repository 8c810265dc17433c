package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"analysis-backend/internal/shared/telemetry"
)

func TestErrorEnvelopeAndLogLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(telemetry.SetLogger(zap.New(core)))

	r := gin.New()
	r.GET("/client", func(c *gin.Context) {
		c.Set("fileId", "file-1")
		Error(c, http.StatusNotFound, "not_found", "file not found", nil)
	})
	r.GET("/server", func(c *gin.Context) {
		Error(c, http.StatusBadGateway, "analysis_failed", "Error analyzing file. Please try again.", gin.H{"analysisId": "a-1"})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/client", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"error":{"code":"not_found","message":"file not found"}}` {
		t.Fatalf("unexpected body %s", body)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/server", nil))
	var payload ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	details, _ := payload.Error.Details.(map[string]any)
	if details["analysisId"] != "a-1" {
		t.Fatalf("expected details to round trip, got %v", payload.Error.Details)
	}

	entries := logs.FilterMessage("http.error").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 error logs, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected levels %s, %s", entries[0].Level, entries[1].Level)
	}
	if entries[0].ContextMap()["file_id"] != "file-1" {
		t.Fatalf("expected file_id in log, got %v", entries[0].ContextMap())
	}
}
