package usecase

import (
	"context"
	"strings"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// AnalyzeInput represents the input for a symptom analysis
type AnalyzeInput struct {
	Description string `json:"description" binding:"required"`
}

// AnalyzeOutput represents the output of a symptom analysis
type AnalyzeOutput struct {
	Input    string `json:"input"`
	Analysis string `json:"analysis"`
}

// DiseaseUsecase defines the interface for free-text disease analysis
type DiseaseUsecase interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error)
}

type diseaseUsecase struct {
	advisor   service.Advisor
	maxTokens int
}

// NewDiseaseUsecase creates a new disease usecase
func NewDiseaseUsecase(advisor service.Advisor, maxTokens int) DiseaseUsecase {
	return &diseaseUsecase{advisor: advisor, maxTokens: maxTokens}
}

func (u *diseaseUsecase) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	if input == nil || strings.TrimSpace(input.Description) == "" {
		return nil, ErrInvalidRequest
	}
	return &AnalyzeOutput{
		Input:    input.Description,
		Analysis: u.advisor.GenerateText(ctx, symptomAnalysisPrompt(input.Description), u.maxTokens),
	}, nil
}
