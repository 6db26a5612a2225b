package classification

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, G: 40, B: 10, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type staticFetcher struct {
	data []byte
	err  error
}

func (f staticFetcher) Fetch(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

type fakeDetector struct {
	boxes []Detection
	err   error
}

func (d fakeDetector) Detect(context.Context, image.Image) ([]Detection, error) {
	return d.boxes, d.err
}

type fakeEmbedder struct {
	image []float32
	text  map[string][]float32

	mu        sync.Mutex
	textCalls int
}

func (e *fakeEmbedder) ModelID() string { return "fake-clip" }

func (e *fakeEmbedder) EmbedImage(context.Context, image.Image) ([]float32, error) {
	return e.image, nil
}

func (e *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.textCalls++
	e.mu.Unlock()
	return e.text[text], nil
}

type fakeClassifier struct {
	labels []service.Label
	err    error
}

func (c fakeClassifier) Classify(context.Context, image.Image, int) ([]service.Label, error) {
	return c.labels, c.err
}

type mockInferenceClient struct {
	mock.Mock
}

func (m *mockInferenceClient) Infer(ctx context.Context, model string, img []byte) (json.RawMessage, error) {
	args := m.Called(ctx, model, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type recordingRecorder struct {
	mu          sync.Mutex
	served      []string
	fellThrough []string
}

func (r *recordingRecorder) ClassificationServed(_, strategy string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.served = append(r.served, strategy)
}

func (r *recordingRecorder) StrategyFellThrough(strategy, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fellThrough = append(r.fellThrough, strategy+":"+reason)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]float32
}

func (c *memoryCache) Get(_ context.Context, model, text string) ([]float32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[model+"|"+text]
	return v, ok, nil
}

func (c *memoryCache) Put(_ context.Context, model, text string, v []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]float32)
	}
	c.data[model+"|"+text] = v
	return nil
}

func writeLabels(t *testing.T, dir string, domain service.Domain, labels []string) {
	t.Helper()
	data, err := json.Marshal(labels)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, string(domain)+"_labels.json"), data, 0o644))
}

func pestEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		image: []float32{1, 0, 0},
		text: map[string][]float32{
			"aphid":  {2, 0, 0},
			"mite":   {0, 1, 0},
			"thrips": {1, 1, 0},
			"blight": {0, 0, 3},
		},
	}
}

var genericLabels = []service.Label{
	{Label: "corn", Score: 0.1},
	{Label: "leaf", Score: 0.6},
	{Label: "insect", Score: 0.25},
	{Label: "soil", Score: 0.05},
}
