package records

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/shared/server/middleware"
	"analysis-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the records service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches record routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/records", h.create)
	rg.GET("/records/:recordId/energy-use", h.list)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set("recordId", req.RecordID)

	ids, err := h.Svc.CreateFromJSON(c.Request.Context(), userID, req.RecordID, req.JSONData)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "jsonData and recordId are required", nil)
		case errors.Is(err, ErrNoJSON):
			respond.Error(c, http.StatusBadRequest, "invalid_json", "No valid JSON data found in the analysis result.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error creating Energy Use records. Please try again.", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"ids": ids})
}

func (h *Handler) list(c *gin.Context) {
	recordID := c.Param("recordId")
	c.Set("recordId", recordID)

	list, err := h.Svc.List(c.Request.Context(), recordID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "recordId is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list records", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponses(list))
}
