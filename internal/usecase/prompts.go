package usecase

import (
	"fmt"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
)

// Enrichment holds the advice prompts used when a label is seen for the first time.
// An empty Methods prompt skips method generation.
type Enrichment struct {
	Description string
	Methods     string
}

// EnrichmentFor returns the first-sight prompts for a catalog kind
func EnrichmentFor(kind entity.CatalogKind, label string) Enrichment {
	switch kind {
	case entity.CatalogKindPest:
		return Enrichment{
			Description: fmt.Sprintf("Write a short description (3 lines) of the agricultural pest '%s', common crops affected, and visible signs on plants.", label),
			Methods:     fmt.Sprintf("List preventive methods and corrective actions for '%s'. Provide short actionable steps for smallholder farmers.", label),
		}
	default:
		return Enrichment{
			Description: fmt.Sprintf("Write a short description (3 lines) for plant disease '%s', signs on leaves/fruit and suggested quick actions.", label),
		}
	}
}

func pestMethodsPrompt(name string) string {
	return fmt.Sprintf("Provide preventive and corrective methods for '%s' for small farmers in bullet points.", name)
}

func symptomAnalysisPrompt(description string) string {
	return fmt.Sprintf("Farmer reports: %s. Identify likely plant diseases or pests (top 3), explain why, and give step-by-step immediate actions and recommended followups.", description)
}

func recommendationsPrompt(region, forecast string) string {
	return fmt.Sprintf("Given the following forecast for %s: %s.\nProvide 5 short, prioritized farming recommendations and any urgent actions for smallholder farmers.", region, forecast)
}
