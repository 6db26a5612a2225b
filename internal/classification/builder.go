package classification

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Options configures the standard strategy chain
type Options struct {
	LocalDetector LocalDetectorConfig
	Remote        RemoteInferenceConfig
	// FallbackModel is the hosted model used when Models.Fallback is nil
	FallbackModel string
	FetchTimeout  time.Duration
}

// Deps are the collaborators shared by the strategies
type Deps struct {
	Fetcher  ImageFetcher
	Remote   InferenceClient
	Labels   *LabelStore
	Cache    EmbeddingCache
	Recorder Recorder
	Logger   *zap.Logger
}

// New builds the dispatcher in fixed priority order: local detector, remote
// inference, zero-shot matcher, generic fallback.
func New(opts Options, models Models, deps Deps) (*Dispatcher, error) {
	var fallback *Fallback
	if models.Fallback != nil {
		fallback = NewLocalFallback(deps.Fetcher, models.Fallback, opts.FetchTimeout)
	} else {
		if deps.Remote == nil {
			return nil, errors.New("fallback needs a local model or an inference client")
		}
		fallback = NewRemoteFallback(deps.Fetcher, deps.Remote, opts.FallbackModel, opts.FetchTimeout)
	}

	strategies := []Strategy{
		NewLocalDetector(opts.LocalDetector, deps.Fetcher, models.LoadDetector),
		NewRemoteInference(opts.Remote, deps.Fetcher, deps.Remote),
		NewZeroShot(deps.Labels, deps.Fetcher, models.Embedder, deps.Cache, opts.FetchTimeout, deps.Logger),
		fallback,
	}
	return NewDispatcher(strategies, deps.Recorder, deps.Logger)
}
