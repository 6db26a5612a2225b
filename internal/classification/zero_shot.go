package classification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// StrategyZeroShot is the name of the embedding matcher strategy
const StrategyZeroShot = "zero_shot"

// ZeroShot scores an image against a candidate label set by cosine
// similarity in a joint image/text embedding space.
type ZeroShot struct {
	labels       *LabelStore
	fetcher      ImageFetcher
	embedder     Embedder
	cache        EmbeddingCache
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewZeroShot creates the zero-shot strategy. A nil embedder keeps the
// strategy permanently inapplicable. cache may be nil.
func NewZeroShot(labels *LabelStore, fetcher ImageFetcher, embedder Embedder, cache EmbeddingCache, fetchTimeout time.Duration, logger *zap.Logger) *ZeroShot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZeroShot{
		labels:       labels,
		fetcher:      fetcher,
		embedder:     embedder,
		cache:        cache,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

func (s *ZeroShot) Name() string { return StrategyZeroShot }

func (s *ZeroShot) IsApplicable(req service.ClassificationRequest) bool {
	return s.embedder != nil && s.labels != nil && s.labels.Exists(req.Domain)
}

func (s *ZeroShot) Attempt(ctx context.Context, req service.ClassificationRequest) ([]service.Label, error) {
	candidates, err := s.labels.Load(req.Domain)
	if err != nil {
		return nil, newStrategyError(s.Name(), ErrNoCandidates, err)
	}
	if len(candidates) == 0 {
		return nil, newStrategyError(s.Name(), ErrNoCandidates, nil)
	}

	img, err := fetchImage(ctx, s.fetcher, req.ImageURL, s.fetchTimeout, s.Name())
	if err != nil {
		return nil, err
	}

	var imageVec []float32
	textVecs := make([][]float32, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.embedder.EmbedImage(gctx, img)
		if err != nil {
			return fmt.Errorf("embed image: %w", err)
		}
		imageVec = v
		return nil
	})
	g.Go(func() error {
		for i, c := range candidates {
			v, err := s.textEmbedding(gctx, c)
			if err != nil {
				return fmt.Errorf("embed label %q: %w", c, err)
			}
			textVecs[i] = v
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, newStrategyError(s.Name(), ErrInference, err)
	}

	if len(imageVec) == 0 {
		return nil, newStrategyError(s.Name(), ErrMalformedResponse, errors.New("empty image embedding"))
	}
	for i, v := range textVecs {
		if len(v) != len(imageVec) {
			return nil, newStrategyError(s.Name(), ErrMalformedResponse,
				fmt.Errorf("label %q embedding has %d dims, image has %d", candidates[i], len(v), len(imageVec)))
		}
	}

	probs := zeroShotScores(imageVec, textVecs)
	labels := make([]service.Label, len(candidates))
	for i, c := range candidates {
		labels[i] = service.Label{Label: c, Score: probs[i]}
	}
	return rank(labels, req.TopK), nil
}

func (s *ZeroShot) textEmbedding(ctx context.Context, text string) ([]float32, error) {
	model := s.embedder.ModelID()
	if s.cache != nil {
		v, ok, err := s.cache.Get(ctx, model, text)
		if err != nil {
			s.logger.Warn("embedding cache read failed", zap.String("label", text), zap.Error(err))
		} else if ok {
			return v, nil
		}
	}

	v, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, model, text, v); err != nil {
			s.logger.Warn("embedding cache write failed", zap.String("label", text), zap.Error(err))
		}
	}
	return v, nil
}

// zeroShotScores softmaxes cosine similarities over the whole candidate set
func zeroShotScores(imageVec []float32, textVecs [][]float32) []float64 {
	img := l2Normalize(imageVec)
	sims := make([]float64, len(textVecs))
	for i, t := range textVecs {
		sims[i] = dot(img, l2Normalize(t))
	}
	return softmax(sims)
}
