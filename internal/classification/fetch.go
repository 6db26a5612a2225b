package classification

import (
	"context"
	"image"
	"time"
)

func fetchBytes(ctx context.Context, f ImageFetcher, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return f.Fetch(ctx, url)
}

// fetchImage downloads and decodes, wrapping failures for strategy
func fetchImage(ctx context.Context, f ImageFetcher, url string, timeout time.Duration, strategy string) (image.Image, error) {
	data, err := fetchBytes(ctx, f, url, timeout)
	if err != nil {
		return nil, newStrategyError(strategy, ErrTransport, err)
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, newStrategyError(strategy, ErrDecode, err)
	}
	return img, nil
}
