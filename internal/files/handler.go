package files

import (
	"errors"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"analysis-backend/internal/shared/server/middleware"
	"analysis-backend/internal/shared/server/respond"
)

const defaultMaxUpload = 10 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUpload
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches file routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files", h.upload)
	rg.GET("/files/:id", h.get)
	rg.GET("/records/:recordId/files", h.listRelated)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large",
				"File is larger than "+humanize.IBytes(uint64(h.MaxUploadBytes))+".", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	recordID := c.PostForm("recordId")
	c.Set("recordId", recordID)

	f, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:   userID,
		RecordID: recordID,
		FileName: fileHeader.Filename,
		Body:     file,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type",
				"This file type cannot be analyzed. Upload a PDF, Word document, text file or image.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload file", nil)
		}
		return
	}

	c.Set("fileId", f.ID)
	respond.JSON(c, http.StatusCreated, toResponse(f))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	fileID := c.Param("id")
	c.Set("fileId", fileID)

	f, err := h.Svc.Get(c.Request.Context(), userID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch file", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(f))
}

func (h *Handler) listRelated(c *gin.Context) {
	recordID := c.Param("recordId")
	c.Set("recordId", recordID)

	list, err := h.Svc.ListRelated(c.Request.Context(), recordID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "recordId is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Could not load existing files.", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toOptions(list))
}
