package org

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/shared/server/respond"
)

// Handler exposes host organisation settings the panel needs.
type Handler struct {
	BaseURL     string
	FlowAPIName string
}

// NewHandler constructs a Handler. A trailing slash on baseURL is dropped.
func NewHandler(baseURL, flowAPIName string) *Handler {
	return &Handler{
		BaseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		FlowAPIName: strings.TrimSpace(flowAPIName),
	}
}

// RegisterRoutes attaches org routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/org/base-url", h.baseURL)
}

func (h *Handler) baseURL(c *gin.Context) {
	if h.BaseURL == "" {
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "Could not determine org URL.", nil)
		return
	}
	resp := gin.H{"baseUrl": h.BaseURL}
	if h.FlowAPIName != "" {
		resp["flowApiName"] = h.FlowAPIName
	}
	respond.JSON(c, http.StatusOK, resp)
}
