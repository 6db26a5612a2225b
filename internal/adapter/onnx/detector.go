//go:build cgo
// +build cgo

package onnx

import (
	"context"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/nwakalordivine/AgriEase-AI/internal/classification"
)

type detector struct {
	opts DetectorOptions

	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewDetectorLoader returns a loader that opens YOLO weights exported to ONNX
func NewDetectorLoader(opts DetectorOptions) classification.DetectorLoader {
	return func(path string) (classification.Detector, error) {
		return newDetector(path, opts)
	}
}

func newDetector(path string, opts DetectorOptions) (*detector, error) {
	if len(opts.Labels) == 0 {
		return nil, fmt.Errorf("detector %s: no class labels configured", path)
	}
	size := int64(opts.InputSize)

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, err
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(4+len(opts.Labels)), int64(opts.NumAnchors)))
	if err != nil {
		destroyAll(input)
		return nil, err
	}
	session, err := ort.NewAdvancedSession(
		path,
		[]string{opts.InputName},
		[]string{opts.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		destroyAll(input, output)
		return nil, fmt.Errorf("open detector %s: %w", path, err)
	}

	track(input, output, session)
	return &detector{opts: opts, session: session, input: input, output: output}, nil
}

func (d *detector) Detect(ctx context.Context, img image.Image) ([]classification.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	boxed := letterbox(img, d.opts.InputSize)

	d.mu.Lock()
	defer d.mu.Unlock()

	toCHW(boxed, d.opts.InputSize, [3]float32{}, [3]float32{1, 1, 1}, d.input.GetData())
	if err := d.session.Run(); err != nil {
		return nil, err
	}

	boxes := decodeYOLO(d.output.GetData(), len(d.opts.Labels), d.opts.NumAnchors, d.opts.ConfThreshold)
	return toDetections(nms(boxes, d.opts.IoUThreshold), d.opts.Labels), nil
}
