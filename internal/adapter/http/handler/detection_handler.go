package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/usecase"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

// DetectionHandler handles image detection requests for pests and diseases
type DetectionHandler struct {
	detectionUC    usecase.DetectionUsecase
	maxUploadBytes int64
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(detectionUC usecase.DetectionUsecase, maxUploadBytes int64) *DetectionHandler {
	return &DetectionHandler{detectionUC: detectionUC, maxUploadBytes: maxUploadBytes}
}

// Detect handles POST /api/v1/{pest,disease}/detect
func (h *DetectionHandler) Detect(kind entity.CatalogKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.maxUploadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
		}

		upload, closer, err := ReadUpload(c, h.maxUploadBytes)
		switch {
		case errors.Is(err, ErrUploadTooLarge):
			HandlePayloadTooLarge(c, h.maxUploadBytes)
			return
		case errors.Is(err, ErrMissingUpload):
			HandleInvalidRequest(c, "image file is required")
			return
		case err != nil:
			HandleInvalidRequest(c, err.Error())
			return
		}
		defer closer.Close()

		output, err := h.detectionUC.Detect(c.Request.Context(), kind, upload)
		if err != nil {
			HandleUsecaseError(c, err)
			return
		}

		respondSuccess(c, http.StatusCreated, output)
	}
}

// List handles GET /api/v1/{pest,disease}/detections
func (h *DetectionHandler) List(kind entity.CatalogKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := ParsePagination(c)

		output, err := h.detectionUC.List(c.Request.Context(), kind, p.Limit, p.Offset)
		if err != nil {
			HandleUsecaseError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, output)
	}
}
