// Package onnx runs the local vision models (object detector, CLIP image and
// text encoders, generic ViT classifier) through ONNX Runtime. Model sessions
// require cgo; without it every constructor returns ErrCGORequired.
package onnx

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrCGORequired is returned when models are loaded in a build without cgo
var ErrCGORequired = errors.New("onnx runtime requires CGO support; rebuild with CGO_ENABLED=1")

// DetectorOptions configures a YOLO-style detector export
type DetectorOptions struct {
	InputName     string
	OutputName    string
	InputSize     int
	NumAnchors    int
	Labels        []string
	ConfThreshold float32
	IoUThreshold  float32
}

// DefaultDetectorOptions matches an Ultralytics export at 640px
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		InputName:     "images",
		OutputName:    "output0",
		InputSize:     640,
		NumAnchors:    8400,
		ConfThreshold: 0.2,
		IoUThreshold:  0.7,
	}
}

// CLIPOptions configures the split CLIP image and text encoders
type CLIPOptions struct {
	ModelID         string
	ImageModelPath  string
	TextModelPath   string
	VocabPath       string
	MergesPath      string
	ImageInputName  string
	ImageOutputName string
	TextInputName   string
	TextMaskName    string
	TextOutputName  string
	ImageSize       int
	EmbeddingDim    int
	ContextLength   int
}

// DefaultCLIPOptions matches openai/clip-vit-base-patch32 exports
func DefaultCLIPOptions() CLIPOptions {
	return CLIPOptions{
		ModelID:         "openai/clip-vit-base-patch32",
		ImageInputName:  "pixel_values",
		ImageOutputName: "image_embeds",
		TextInputName:   "input_ids",
		TextMaskName:    "attention_mask",
		TextOutputName:  "text_embeds",
		ImageSize:       224,
		EmbeddingDim:    512,
		ContextLength:   77,
	}
}

// ClassifierOptions configures a closed-vocabulary image classifier
type ClassifierOptions struct {
	ModelPath  string
	LabelsPath string
	InputName  string
	OutputName string
	ImageSize  int
	Mean       [3]float32
	Std        [3]float32
}

// DefaultClassifierOptions matches google/vit-base-patch16-224 exports
func DefaultClassifierOptions() ClassifierOptions {
	return ClassifierOptions{
		InputName:  "pixel_values",
		OutputName: "logits",
		ImageSize:  224,
		Mean:       [3]float32{0.5, 0.5, 0.5},
		Std:        [3]float32{0.5, 0.5, 0.5},
	}
}

var (
	clipMean = [3]float32{0.48145466, 0.4578275, 0.40821073}
	clipStd  = [3]float32{0.26862954, 0.26130258, 0.27577711}
)

// LoadLabels reads a JSON array of class names
func LoadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse labels %s: %w", path, err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}
