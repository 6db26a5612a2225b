package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwakalordivine/AgriEase-AI/internal/usecase"
)

// PestHandler handles pest catalog requests
type PestHandler struct {
	pestUC usecase.PestUsecase
}

// NewPestHandler creates a new pest handler
func NewPestHandler(pestUC usecase.PestUsecase) *PestHandler {
	return &PestHandler{pestUC: pestUC}
}

// GetPest handles GET /api/v1/pest/:id
func (h *PestHandler) GetPest(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "pest id")
		return
	}

	output, err := h.pestUC.Get(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetMethods handles GET /api/v1/pest/methods/:name
func (h *PestHandler) GetMethods(c *gin.Context) {
	output, err := h.pestUC.Methods(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// DiseaseHandler handles free-text disease analysis
type DiseaseHandler struct {
	diseaseUC usecase.DiseaseUsecase
}

// NewDiseaseHandler creates a new disease handler
func NewDiseaseHandler(diseaseUC usecase.DiseaseUsecase) *DiseaseHandler {
	return &DiseaseHandler{diseaseUC: diseaseUC}
}

// Analyze handles POST /api/v1/disease/analyze
func (h *DiseaseHandler) Analyze(c *gin.Context) {
	var input usecase.AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.diseaseUC.Analyze(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// ClimateHandler handles weather forecast and recommendation requests
type ClimateHandler struct {
	climateUC usecase.ClimateUsecase
}

// NewClimateHandler creates a new climate handler
func NewClimateHandler(climateUC usecase.ClimateUsecase) *ClimateHandler {
	return &ClimateHandler{climateUC: climateUC}
}

// Forecast handles GET /api/v1/climate/forecast/:region
func (h *ClimateHandler) Forecast(c *gin.Context) {
	output, err := h.climateUC.Forecast(c.Request.Context(), c.Param("region"))
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// Recommendations handles GET /api/v1/climate/recommendations/:region
func (h *ClimateHandler) Recommendations(c *gin.Context) {
	output, err := h.climateUC.Recommendations(c.Request.Context(), c.Param("region"))
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}
