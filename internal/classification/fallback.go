package classification

import (
	"context"
	"fmt"
	"time"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// StrategyFallback is the name of the terminal generic classifier
const StrategyFallback = "fallback"

// Fallback is the generic image classifier that always runs last. It is
// backed either by a local model or by a hosted generic model.
type Fallback struct {
	fetcher      ImageFetcher
	fetchTimeout time.Duration
	classify     func(ctx context.Context, data []byte, topK int) ([]service.Label, error)
}

// NewLocalFallback creates a fallback backed by an in-process classifier
func NewLocalFallback(fetcher ImageFetcher, classifier ImageClassifier, fetchTimeout time.Duration) *Fallback {
	return &Fallback{
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
		classify: func(ctx context.Context, data []byte, topK int) ([]service.Label, error) {
			img, err := decodeImage(data)
			if err != nil {
				return nil, err
			}
			return classifier.Classify(ctx, img, topK)
		},
	}
}

// NewRemoteFallback creates a fallback backed by a hosted generic model
func NewRemoteFallback(fetcher ImageFetcher, client InferenceClient, model string, fetchTimeout time.Duration) *Fallback {
	return &Fallback{
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
		classify: func(ctx context.Context, data []byte, _ int) ([]service.Label, error) {
			raw, err := client.Infer(ctx, model, data)
			if err != nil {
				return nil, err
			}
			return parseRankedList(raw)
		},
	}
}

func (s *Fallback) Name() string { return StrategyFallback }

func (s *Fallback) IsApplicable(service.ClassificationRequest) bool { return true }

func (s *Fallback) Attempt(ctx context.Context, req service.ClassificationRequest) ([]service.Label, error) {
	data, err := fetchBytes(ctx, s.fetcher, req.ImageURL, s.fetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	labels, err := s.classify(ctx, data, req.TopK)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, ErrEmptyResult
	}
	return rank(labels, req.TopK), nil
}
