package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/shared/server/middleware"
	"analysis-backend/internal/shared/server/respond"
)

const msgAnalyzeFailed = "Error analyzing file. Please try again."

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files/:id/analyze", h.analyze)
	rg.GET("/files/:id/analysis", h.latest)
	rg.GET("/analyses/:id", h.getAnalysis)
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	fileID := c.Param("id")
	c.Set("fileId", fileID)

	analysis, err := h.Svc.Analyze(c.Request.Context(), userID, fileID)
	if analysis.ID != "" {
		c.Set("analysisId", analysis.ID)
	}
	if err != nil {
		var details any
		if analysis.ID != "" {
			details = gin.H{"analysisId": analysis.ID}
		}
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file id is required", nil)
		case errors.Is(err, ErrFileNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		case errors.Is(err, ErrNotAnalyzable):
			respond.Error(c, http.StatusUnprocessableEntity, "not_analyzable",
				"No readable content was found in this file.", details)
		case errors.Is(err, ErrLLMUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable",
				"AI analysis is not configured.", details)
		case errors.Is(err, ErrLLMTimeout):
			respond.Error(c, http.StatusGatewayTimeout, "llm_timeout",
				"The analysis took too long. Please try again.", details)
		case errors.Is(err, ErrLLMFailed):
			respond.Error(c, http.StatusBadGateway, "analysis_failed", msgAnalyzeFailed, details)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", msgAnalyzeFailed, details)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"analysisId": analysis.ID,
		"status":     analysis.Status,
		"result":     analysis.Result,
	})
}

func (h *Handler) latest(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	fileID := c.Param("id")
	c.Set("fileId", fileID)

	analysis, err := h.Svc.Latest(c.Request.Context(), userID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file has not been analyzed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}
	c.Set("analysisId", analysis.ID)
	respond.JSON(c, http.StatusOK, toResponse(analysis))
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	analysis, err := h.Svc.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(analysis))
}
