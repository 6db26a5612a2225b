package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/client"
	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/http/handler"
	"github.com/nwakalordivine/AgriEase-AI/internal/adapter/onnx"
	"github.com/nwakalordivine/AgriEase-AI/internal/classification"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/config"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/embedcache"
	"github.com/nwakalordivine/AgriEase-AI/internal/infrastructure/metrics"
)

const maxFetchBytes = 20 << 20

// buildClassifier loads the local models once and assembles the strategy
// chain. The returned func releases the embedding cache.
func buildClassifier(ctx context.Context, cfg *config.ClassifierConfig, m *metrics.Metrics, log *zap.Logger) (service.Classifier, []handler.ComponentCheck, func(), error) {
	closeFn := func() {}

	detOpts := onnx.DefaultDetectorOptions()
	if cfg.LocalDetector.InputSize > 0 {
		detOpts.InputSize = cfg.LocalDetector.InputSize
	}
	if cfg.LocalDetector.ConfThreshold > 0 {
		detOpts.ConfThreshold = cfg.LocalDetector.ConfThreshold
	}
	if cfg.LocalDetector.IoUThreshold > 0 {
		detOpts.IoUThreshold = cfg.LocalDetector.IoUThreshold
	}
	if cfg.LocalDetector.Enabled {
		labels, err := onnx.LoadLabels(cfg.LocalDetector.LabelsPath)
		if err != nil {
			log.Warn("Detector labels unavailable, using class indices", zap.Error(err))
		}
		detOpts.Labels = labels
	}

	models := classification.Models{LoadDetector: onnx.NewDetectorLoader(detOpts)}

	if cfg.ZeroShot.Enabled {
		clipOpts := onnx.DefaultCLIPOptions()
		clipOpts.ModelID = cfg.ZeroShot.ModelID
		clipOpts.ImageModelPath = cfg.ZeroShot.ImageModelPath
		clipOpts.TextModelPath = cfg.ZeroShot.TextModelPath
		clipOpts.VocabPath = cfg.ZeroShot.VocabPath
		clipOpts.MergesPath = cfg.ZeroShot.MergesPath

		embedder, err := onnx.NewCLIPEmbedder(clipOpts)
		if err != nil {
			log.Warn("CLIP embedder unavailable, zero-shot matching disabled", zap.Error(err))
		} else {
			models.Embedder = embedder
			log.Info("CLIP embedder loaded", zap.String("model", embedder.ModelID()))
		}
	}

	switch cfg.Fallback.Backend {
	case config.FallbackBackendONNX:
		opts := onnx.DefaultClassifierOptions()
		opts.ModelPath = cfg.Fallback.ModelPath
		opts.LabelsPath = cfg.Fallback.LabelsPath
		fallback, err := onnx.NewImageClassifier(opts)
		if err != nil {
			return nil, nil, closeFn, fmt.Errorf("fallback classifier: %w", err)
		}
		models.Fallback = fallback
	case config.FallbackBackendRemote:
		log.Info("Using hosted fallback classifier", zap.String("model", cfg.Fallback.RemoteModel))
	default:
		return nil, nil, closeFn, fmt.Errorf("unknown fallback backend %q", cfg.Fallback.Backend)
	}

	var embCache classification.EmbeddingCache
	if models.Embedder != nil && cfg.ZeroShot.CachePath != "" {
		cache, err := openEmbeddingCache(ctx, cfg.ZeroShot.CachePath)
		if err != nil {
			log.Warn("Embedding cache unavailable, label embeddings will be recomputed", zap.Error(err))
		} else {
			embCache = cache
			closeFn = func() { _ = cache.Close() }
		}
	}

	dispatcher, err := classification.New(classification.Options{
		LocalDetector: classification.LocalDetectorConfig{
			Enabled:      cfg.LocalDetector.Enabled,
			WeightsPath:  cfg.LocalDetector.WeightsPath,
			FetchTimeout: cfg.FetchTimeout,
		},
		Remote: classification.RemoteInferenceConfig{
			APIKey:       cfg.Remote.APIKey,
			Model:        cfg.Remote.DiseaseModel,
			FetchTimeout: cfg.FetchTimeout,
		},
		FallbackModel: cfg.Fallback.RemoteModel,
		FetchTimeout:  cfg.FetchTimeout,
	}, models, classification.Deps{
		Fetcher:  client.NewImageFetcher(cfg.FetchTimeout, maxFetchBytes),
		Remote:   client.NewInferenceClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.Timeout),
		Labels:   classification.NewLabelStore(cfg.LabelsDir),
		Cache:    embCache,
		Recorder: m,
		Logger:   log,
	})
	if err != nil {
		closeFn()
		return nil, nil, func() {}, err
	}

	return dispatcher, modelChecks(cfg, models.Embedder != nil), closeFn, nil
}

func openEmbeddingCache(ctx context.Context, path string) (*embedcache.Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return embedcache.Open(ctx, path)
}

func modelChecks(cfg *config.ClassifierConfig, zeroShot bool) []handler.ComponentCheck {
	return []handler.ComponentCheck{
		{Name: "local_detector", Check: func(context.Context) string {
			if !cfg.LocalDetector.Enabled {
				return "disabled"
			}
			if _, err := os.Stat(cfg.LocalDetector.WeightsPath); err != nil {
				return "weights missing"
			}
			return ""
		}},
		{Name: "remote_inference", Check: func(context.Context) string {
			if cfg.Remote.APIKey == "" {
				return "not configured"
			}
			return ""
		}},
		{Name: "zero_shot", Check: func(context.Context) string {
			if !zeroShot {
				return "unavailable"
			}
			return ""
		}},
	}
}
