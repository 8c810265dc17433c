package org

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serve(h *Handler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/org/base-url", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestBaseURL(t *testing.T) {
	resp := serve(NewHandler(" https://example.my.site.com/ ", "Process_AI_Analysis_Result"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		BaseURL     string `json:"baseUrl"`
		FlowAPIName string `json:"flowApiName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.BaseURL != "https://example.my.site.com" || body.FlowAPIName != "Process_AI_Analysis_Result" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestBaseURLUnset(t *testing.T) {
	resp := serve(NewHandler("", ""))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
