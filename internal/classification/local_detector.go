package classification

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// StrategyLocalDetector is the name of the on-disk object detector strategy
const StrategyLocalDetector = "local_detector"

// LocalDetectorConfig configures the local detector strategy
type LocalDetectorConfig struct {
	Enabled      bool
	WeightsPath  string
	FetchTimeout time.Duration
}

// LocalDetector runs object-detection weights from disk. Only used for pests.
type LocalDetector struct {
	cfg     LocalDetectorConfig
	fetcher ImageFetcher
	load    DetectorLoader

	mu     sync.Mutex
	loaded map[string]Detector
}

// NewLocalDetector creates the local detector strategy
func NewLocalDetector(cfg LocalDetectorConfig, fetcher ImageFetcher, load DetectorLoader) *LocalDetector {
	return &LocalDetector{
		cfg:     cfg,
		fetcher: fetcher,
		load:    load,
		loaded:  make(map[string]Detector),
	}
}

func (s *LocalDetector) Name() string { return StrategyLocalDetector }

func (s *LocalDetector) IsApplicable(req service.ClassificationRequest) bool {
	if req.Domain != service.DomainPest || !s.cfg.Enabled || s.load == nil {
		return false
	}
	_, err := os.Stat(s.cfg.WeightsPath)
	return err == nil
}

func (s *LocalDetector) Attempt(ctx context.Context, req service.ClassificationRequest) ([]service.Label, error) {
	det, err := s.detector(s.cfg.WeightsPath)
	if err != nil {
		return nil, newStrategyError(s.Name(), ErrModelUnavailable, err)
	}

	img, err := fetchImage(ctx, s.fetcher, req.ImageURL, s.cfg.FetchTimeout, s.Name())
	if err != nil {
		return nil, err
	}

	boxes, err := det.Detect(ctx, img)
	if err != nil {
		return nil, newStrategyError(s.Name(), ErrInference, err)
	}
	if len(boxes) == 0 {
		return nil, newStrategyError(s.Name(), ErrNoDetections, nil)
	}

	labels := make([]service.Label, len(boxes))
	for i, b := range boxes {
		labels[i] = service.Label{Label: b.Label, Score: b.Confidence}
	}
	return rank(labels, req.TopK), nil
}

// detector loads weights once per path
func (s *LocalDetector) detector(path string) (Detector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.loaded[path]; ok {
		return d, nil
	}
	d, err := s.load(path)
	if err != nil {
		return nil, err
	}
	s.loaded[path] = d
	return d, nil
}
