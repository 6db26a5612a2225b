package classification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// ImageFetcher downloads image bytes from a URL
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Detection is one box reported by an object detector
type Detection struct {
	Label      string
	Confidence float64
}

// Detector finds labelled objects in an image
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

// DetectorLoader opens detector weights at a path
type DetectorLoader func(path string) (Detector, error)

// Embedder maps images and text into a shared embedding space
type Embedder interface {
	ModelID() string
	EmbedImage(ctx context.Context, img image.Image) ([]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache stores label text embeddings across restarts
type EmbeddingCache interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Put(ctx context.Context, model, text string, vector []float32) error
}

// ImageClassifier is a closed-vocabulary classifier returning probabilities
type ImageClassifier interface {
	Classify(ctx context.Context, img image.Image, topK int) ([]service.Label, error)
}

// InferenceClient posts raw image bytes to a hosted model and returns the body
type InferenceClient interface {
	Infer(ctx context.Context, model string, image []byte) (json.RawMessage, error)
}

// Recorder receives dispatcher outcomes for metrics
type Recorder interface {
	ClassificationServed(domain, strategy string)
	StrategyFellThrough(strategy, reason string)
}

type nopRecorder struct{}

func (nopRecorder) ClassificationServed(string, string) {}

func (nopRecorder) StrategyFellThrough(string, string) {}

// Models holds model handles loaded once at startup. Nil fields mark a model
// that is not available for the process lifetime.
type Models struct {
	LoadDetector DetectorLoader
	Embedder     Embedder
	Fallback     ImageClassifier
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
