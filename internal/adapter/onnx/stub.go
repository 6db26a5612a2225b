//go:build !cgo
// +build !cgo

package onnx

import (
	"github.com/nwakalordivine/AgriEase-AI/internal/classification"
)

// Init returns ErrCGORequired in builds without cgo
func Init(string) error { return ErrCGORequired }

// Shutdown is a no-op in builds without cgo
func Shutdown() error { return nil }

// NewDetectorLoader returns a loader that always fails without cgo
func NewDetectorLoader(DetectorOptions) classification.DetectorLoader {
	return func(string) (classification.Detector, error) {
		return nil, ErrCGORequired
	}
}

// NewCLIPEmbedder returns ErrCGORequired in builds without cgo
func NewCLIPEmbedder(CLIPOptions) (classification.Embedder, error) {
	return nil, ErrCGORequired
}

// NewImageClassifier returns ErrCGORequired in builds without cgo
func NewImageClassifier(ClassifierOptions) (classification.ImageClassifier, error) {
	return nil, ErrCGORequired
}
