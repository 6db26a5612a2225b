package classification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// Strategy is one classification backend in the fallback chain
type Strategy interface {
	Name() string
	// IsApplicable reports whether the strategy can serve req right now.
	// It must be cheap and must not perform network calls.
	IsApplicable(req service.ClassificationRequest) bool
	// Attempt returns a non-empty ranked list or an error.
	Attempt(ctx context.Context, req service.ClassificationRequest) ([]service.Label, error)
}

// Dispatcher tries strategies in fixed priority order. The last strategy is
// terminal: it always runs when reached and its failure is returned.
type Dispatcher struct {
	strategies []Strategy
	recorder   Recorder
	logger     *zap.Logger
}

// NewDispatcher creates a dispatcher over strategies in priority order
func NewDispatcher(strategies []Strategy, recorder Recorder, logger *zap.Logger) (*Dispatcher, error) {
	if len(strategies) == 0 {
		return nil, errors.New("dispatcher needs at least one strategy")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		strategies: strategies,
		recorder:   recorder,
		logger:     logger,
	}, nil
}

var _ service.Classifier = (*Dispatcher)(nil)

// Classify implements service.Classifier
func (d *Dispatcher) Classify(ctx context.Context, req service.ClassificationRequest) (*service.ClassificationResult, error) {
	if req.TopK < 1 {
		req.TopK = 1
	}

	last := len(d.strategies) - 1
	for i, s := range d.strategies {
		terminal := i == last
		log := d.logger.With(
			zap.String("strategy", s.Name()),
			zap.String("domain", string(req.Domain)),
		)

		if !terminal && !s.IsApplicable(req) {
			log.Debug("strategy not applicable")
			continue
		}

		labels, err := s.Attempt(ctx, req)
		if err == nil && len(labels) == 0 {
			err = ErrEmptyResult
		}
		if err != nil {
			if terminal {
				log.Error("terminal strategy failed", zap.Error(err))
				return nil, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", ErrClassificationFailed, ctxErr)
			}

			reason := "other"
			var se *StrategyError
			if errors.As(err, &se) {
				reason = reasonLabel(se)
			}
			log.Warn("strategy failed, falling through",
				zap.String("reason", reason),
				zap.Error(err),
			)
			d.recorder.StrategyFellThrough(s.Name(), reason)
			continue
		}

		d.recorder.ClassificationServed(string(req.Domain), s.Name())
		return &service.ClassificationResult{
			Labels:   rank(labels, req.TopK),
			Strategy: s.Name(),
		}, nil
	}

	// unreachable: the terminal strategy always returns above
	return nil, ErrClassificationFailed
}
