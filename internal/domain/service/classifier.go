package service

import (
	"context"
	"fmt"
	"strings"
)

// Domain selects which classification strategies are eligible for a request
type Domain string

const (
	DomainPest    Domain = "pest"
	DomainDisease Domain = "disease"
	DomainGeneric Domain = "generic"
)

// ParseDomain converts a raw string into a Domain
func ParseDomain(s string) (Domain, error) {
	switch d := Domain(strings.ToLower(strings.TrimSpace(s))); d {
	case DomainPest, DomainDisease, DomainGeneric:
		return d, nil
	default:
		return "", fmt.Errorf("unknown classification domain %q", s)
	}
}

// Label is a single ranked classification output
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassificationRequest describes one classification call
type ClassificationRequest struct {
	ImageURL string
	Domain   Domain
	TopK     int
}

// ClassificationResult is the normalized output every strategy produces
type ClassificationResult struct {
	Labels   []Label `json:"labels"`
	Strategy string  `json:"strategy"`
}

// Top returns the highest ranked label
func (r *ClassificationResult) Top() Label {
	if r == nil || len(r.Labels) == 0 {
		return Label{}
	}
	return r.Labels[0]
}

// Classifier defines the interface for image classification
type Classifier interface {
	// Classify ranks labels for the image at req.ImageURL. It only fails when
	// the terminal fallback strategy fails.
	Classify(ctx context.Context, req ClassificationRequest) (*ClassificationResult, error)
}
