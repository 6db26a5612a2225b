package classification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// StrategyRemoteInference is the name of the hosted-model strategy
const StrategyRemoteInference = "remote_inference"

// RemoteInferenceConfig configures the hosted disease model
type RemoteInferenceConfig struct {
	APIKey       string
	Model        string
	FetchTimeout time.Duration
}

// RemoteInference sends disease images to a hosted inference endpoint
type RemoteInference struct {
	cfg     RemoteInferenceConfig
	fetcher ImageFetcher
	client  InferenceClient
}

// NewRemoteInference creates the hosted inference strategy
func NewRemoteInference(cfg RemoteInferenceConfig, fetcher ImageFetcher, client InferenceClient) *RemoteInference {
	return &RemoteInference{cfg: cfg, fetcher: fetcher, client: client}
}

func (s *RemoteInference) Name() string { return StrategyRemoteInference }

func (s *RemoteInference) IsApplicable(req service.ClassificationRequest) bool {
	return req.Domain == service.DomainDisease && s.cfg.APIKey != "" && s.client != nil
}

func (s *RemoteInference) Attempt(ctx context.Context, req service.ClassificationRequest) ([]service.Label, error) {
	data, err := fetchBytes(ctx, s.fetcher, req.ImageURL, s.cfg.FetchTimeout)
	if err != nil {
		return nil, newStrategyError(s.Name(), ErrTransport, err)
	}

	raw, err := s.client.Infer(ctx, s.cfg.Model, data)
	if err != nil {
		return nil, newStrategyError(s.Name(), ErrTransport, err)
	}

	labels, err := parseRankedList(raw)
	if err != nil {
		return nil, newStrategyError(s.Name(), ErrMalformedResponse, err)
	}
	if len(labels) == 0 {
		return nil, newStrategyError(s.Name(), ErrNoDetections, nil)
	}
	return rank(labels, req.TopK), nil
}

// parseRankedList accepts only a JSON array of {label, score} objects with
// scores in [0,1]. One bad entry rejects the whole payload.
func parseRankedList(raw json.RawMessage) ([]service.Label, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array, got %.64q", string(trimmed))
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}

	labels := make([]service.Label, 0, len(entries))
	for i, e := range entries {
		var item struct {
			Label *string  `json:"label"`
			Score *float64 `json:"score"`
		}
		if err := json.Unmarshal(e, &item); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if item.Label == nil || item.Score == nil {
			return nil, fmt.Errorf("entry %d: missing label or score", i)
		}
		if math.IsNaN(*item.Score) || *item.Score < 0 || *item.Score > 1 {
			return nil, fmt.Errorf("entry %d: score %v out of range", i, *item.Score)
		}
		labels = append(labels, service.Label{Label: *item.Label, Score: *item.Score})
	}
	return labels, nil
}
