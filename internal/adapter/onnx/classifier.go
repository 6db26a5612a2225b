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
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

type imageClassifier struct {
	opts   ClassifierOptions
	labels []string

	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewImageClassifier opens a closed-vocabulary classifier such as ViT
func NewImageClassifier(opts ClassifierOptions) (classification.ImageClassifier, error) {
	labels, err := LoadLabels(opts.LabelsPath)
	if err != nil {
		return nil, err
	}
	size := int64(opts.ImageSize)

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, err
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		destroyAll(input)
		return nil, err
	}
	session, err := ort.NewAdvancedSession(
		opts.ModelPath,
		[]string{opts.InputName},
		[]string{opts.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		destroyAll(input, output)
		return nil, fmt.Errorf("open classifier %s: %w", opts.ModelPath, err)
	}

	track(input, output, session)
	return &imageClassifier{opts: opts, labels: labels, session: session, input: input, output: output}, nil
}

func (c *imageClassifier) Classify(ctx context.Context, img image.Image, k int) ([]service.Label, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resized := resizeExact(img, c.opts.ImageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	toCHW(resized, c.opts.ImageSize, c.opts.Mean, c.opts.Std, c.input.GetData())
	if err := c.session.Run(); err != nil {
		return nil, err
	}
	return topK(c.output.GetData(), c.labels, k), nil
}
