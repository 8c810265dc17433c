package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"analysis-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.InfoLevel)
	t.Cleanup(telemetry.SetLogger(zap.New(core)))

	router := gin.New()
	router.Use(RequestID(), Auth(), Logging())
	router.GET("/test", func(c *gin.Context) {
		c.Set("fileId", "file-1")
		c.Set("analysisId", "analysis-1")
		c.Set("statusTransition", "analyzing->analyzed")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Guest-Id", "guest1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	entries := logs.FilterMessage("request.complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	payload := entries[0].ContextMap()

	required := []string{"request_id", "user_id", "file_id", "analysis_id", "duration_ms", "status", "status_transition"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["user_id"] != "guest:guest1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["file_id"] != "file-1" {
		t.Fatalf("unexpected file_id: %v", payload["file_id"])
	}
	if payload["analysis_id"] != "analysis-1" {
		t.Fatalf("unexpected analysis_id: %v", payload["analysis_id"])
	}
	if payload["status_transition"] != "analyzing->analyzed" {
		t.Fatalf("unexpected status_transition: %v", payload["status_transition"])
	}
	if payload["request_id"] != resp.Header().Get("X-Request-Id") {
		t.Fatalf("request id mismatch: %v vs %s", payload["request_id"], resp.Header().Get("X-Request-Id"))
	}
}

func TestLoggingQuietPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.InfoLevel)
	t.Cleanup(telemetry.SetLogger(zap.New(core)))

	router := gin.New()
	router.Use(Logging("/api/v1/health"))
	router.GET("/api/v1/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/api/v1/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil))

	entries := logs.FilterMessage("request.complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected only the non-quiet request logged, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn for 404, got %s", entries[0].Level)
	}
	if entries[0].ContextMap()["route"] != "/api/v1/missing" {
		t.Fatalf("unexpected route %v", entries[0].ContextMap()["route"])
	}
}
