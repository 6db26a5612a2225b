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

type clipEmbedder struct {
	opts      CLIPOptions
	tokenizer *Tokenizer

	imageMu      sync.Mutex
	imageSession *ort.AdvancedSession
	pixels       *ort.Tensor[float32]
	imageEmbeds  *ort.Tensor[float32]

	textMu      sync.Mutex
	textSession *ort.AdvancedSession
	inputIDs    *ort.Tensor[int64]
	mask        *ort.Tensor[int64]
	textEmbeds  *ort.Tensor[float32]
}

// NewCLIPEmbedder opens the CLIP image and text encoders. The two encoders
// have separate sessions so image and text embeddings can run concurrently.
func NewCLIPEmbedder(opts CLIPOptions) (classification.Embedder, error) {
	tok, err := LoadTokenizer(opts.VocabPath, opts.MergesPath, opts.ContextLength)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	e := &clipEmbedder{opts: opts, tokenizer: tok}
	if err := e.openImage(); err != nil {
		return nil, err
	}
	if err := e.openText(); err != nil {
		destroyAll(e.imageSession, e.pixels, e.imageEmbeds)
		return nil, err
	}
	track(e.pixels, e.imageEmbeds, e.imageSession, e.inputIDs, e.mask, e.textEmbeds, e.textSession)
	return e, nil
}

func (e *clipEmbedder) openImage() error {
	size := int64(e.opts.ImageSize)
	var err error
	if e.pixels, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size)); err != nil {
		return err
	}
	if e.imageEmbeds, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(e.opts.EmbeddingDim))); err != nil {
		destroyAll(e.pixels)
		return err
	}
	e.imageSession, err = ort.NewAdvancedSession(
		e.opts.ImageModelPath,
		[]string{e.opts.ImageInputName},
		[]string{e.opts.ImageOutputName},
		[]ort.Value{e.pixels},
		[]ort.Value{e.imageEmbeds},
		nil,
	)
	if err != nil {
		destroyAll(e.pixels, e.imageEmbeds)
		return fmt.Errorf("open clip image encoder: %w", err)
	}
	return nil
}

func (e *clipEmbedder) openText() error {
	ctxLen := int64(e.opts.ContextLength)
	var err error
	if e.inputIDs, err = ort.NewEmptyTensor[int64](ort.NewShape(1, ctxLen)); err != nil {
		return err
	}
	if e.mask, err = ort.NewEmptyTensor[int64](ort.NewShape(1, ctxLen)); err != nil {
		destroyAll(e.inputIDs)
		return err
	}
	if e.textEmbeds, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(e.opts.EmbeddingDim))); err != nil {
		destroyAll(e.inputIDs, e.mask)
		return err
	}

	names := []string{e.opts.TextInputName}
	inputs := []ort.Value{e.inputIDs}
	if e.opts.TextMaskName != "" {
		names = append(names, e.opts.TextMaskName)
		inputs = append(inputs, e.mask)
	}
	e.textSession, err = ort.NewAdvancedSession(
		e.opts.TextModelPath,
		names,
		[]string{e.opts.TextOutputName},
		inputs,
		[]ort.Value{e.textEmbeds},
		nil,
	)
	if err != nil {
		destroyAll(e.inputIDs, e.mask, e.textEmbeds)
		return fmt.Errorf("open clip text encoder: %w", err)
	}
	return nil
}

func (e *clipEmbedder) ModelID() string { return e.opts.ModelID }

func (e *clipEmbedder) EmbedImage(ctx context.Context, img image.Image) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cropped := resizeCenterCrop(img, e.opts.ImageSize)

	e.imageMu.Lock()
	defer e.imageMu.Unlock()

	toCHW(cropped, e.opts.ImageSize, clipMean, clipStd, e.pixels.GetData())
	if err := e.imageSession.Run(); err != nil {
		return nil, err
	}
	return append([]float32(nil), e.imageEmbeds.GetData()...), nil
}

func (e *clipEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids, mask := e.tokenizer.Encode(text)

	e.textMu.Lock()
	defer e.textMu.Unlock()

	copy(e.inputIDs.GetData(), ids)
	copy(e.mask.GetData(), mask)
	if err := e.textSession.Run(); err != nil {
		return nil, err
	}
	return append([]float32(nil), e.textEmbeds.GetData()...), nil
}
