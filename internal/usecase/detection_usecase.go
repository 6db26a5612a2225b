package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/repository"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// DetectionTopK is the number of ranked labels kept per detection
const DetectionTopK = 5

// DetectionOutput represents the output for detection operations
type DetectionOutput struct {
	ID           uuid.UUID       `json:"id"`
	EntryID      uuid.UUID       `json:"entry_id"`
	Kind         string          `json:"kind"`
	Name         string          `json:"name"`
	Confidence   float64         `json:"confidence"`
	ImageURL     string          `json:"image_url"`
	Strategy     string          `json:"strategy"`
	RawResult    []service.Label `json:"raw_result"`
	EntryCreated bool            `json:"entry_created"`
	CreatedAt    string          `json:"created_at"`
}

// DetectionUsecase defines the interface for pest and disease detection
type DetectionUsecase interface {
	Detect(ctx context.Context, kind entity.CatalogKind, upload *service.Upload) (*DetectionOutput, error)
	List(ctx context.Context, kind entity.CatalogKind, limit, offset int) (*ListOutput[*DetectionOutput], error)
}

type detectionUsecase struct {
	storage       service.ObjectStorage
	classifier    service.Classifier
	resolver      EntityResolver
	detectionRepo repository.DetectionRepository
	logger        *zap.Logger
}

// NewDetectionUsecase creates a new detection usecase
func NewDetectionUsecase(
	storage service.ObjectStorage,
	classifier service.Classifier,
	resolver EntityResolver,
	detectionRepo repository.DetectionRepository,
	logger *zap.Logger,
) DetectionUsecase {
	return &detectionUsecase{
		storage:       storage,
		classifier:    classifier,
		resolver:      resolver,
		detectionRepo: detectionRepo,
		logger:        logger,
	}
}

func (u *detectionUsecase) Detect(ctx context.Context, kind entity.CatalogKind, upload *service.Upload) (*DetectionOutput, error) {
	if upload == nil || upload.Body == nil {
		return nil, ErrInvalidRequest
	}
	if kind != entity.CatalogKindPest && kind != entity.CatalogKindDisease {
		return nil, ErrInvalidRequest
	}

	imageURL, err := u.storage.SaveFile(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	result, err := u.classifier.Classify(ctx, service.ClassificationRequest{
		ImageURL: imageURL,
		Domain:   service.Domain(kind),
		TopK:     DetectionTopK,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	top := result.Top()
	if top.Label == "" {
		return nil, fmt.Errorf("%w: empty label", ErrClassification)
	}

	entry, created, err := u.resolver.ResolveOrCreate(ctx, kind, top.Label, imageURL, EnrichmentFor(kind, top.Label))
	if err != nil {
		return nil, err
	}

	detection, err := entity.NewDetection(kind, entry.ID, top.Label, top.Score, imageURL, result.Strategy, result.Labels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode predictions: %w", err)
	}
	if err := u.detectionRepo.Create(ctx, detection); err != nil {
		return nil, err
	}

	u.logger.Info("detection recorded",
		zap.String("kind", string(kind)),
		zap.String("label", top.Label),
		zap.Float64("confidence", top.Score),
		zap.String("strategy", result.Strategy),
	)

	out := toDetectionOutput(detection)
	out.RawResult = result.Labels
	out.EntryCreated = created
	return out, nil
}

func (u *detectionUsecase) List(ctx context.Context, kind entity.CatalogKind, limit, offset int) (*ListOutput[*DetectionOutput], error) {
	if limit < 1 || offset < 0 {
		return nil, ErrInvalidRequest
	}

	detections, total, err := u.detectionRepo.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*DetectionOutput, len(detections))
	for i, d := range detections {
		items[i] = toDetectionOutput(d)
	}

	return &ListOutput[*DetectionOutput]{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

func toDetectionOutput(d *entity.Detection) *DetectionOutput {
	out := &DetectionOutput{
		ID:         d.ID,
		EntryID:    d.EntryID,
		Kind:       string(d.Kind),
		Name:       d.Label,
		Confidence: d.Confidence,
		ImageURL:   d.ImageURL,
		Strategy:   d.Strategy,
		CreatedAt:  d.CreatedAt.Format(timeLayout),
	}
	var labels []service.Label
	if err := json.Unmarshal([]byte(d.RawResult), &labels); err == nil {
		out.RawResult = labels
	}
	return out
}
