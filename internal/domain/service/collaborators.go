package service

import (
	"context"
	"encoding/json"
	"io"
)

// Advisor turns a prompt into advisory text. It never fails: misconfiguration
// and transport errors degrade into a readable placeholder.
type Advisor interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int) string
}

// Upload is a raw file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStorage persists uploads and returns a publicly fetchable URL
type ObjectStorage interface {
	SaveFile(ctx context.Context, upload *Upload) (string, error)
}

// WeatherProvider returns current conditions for a region as opaque JSON
type WeatherProvider interface {
	Current(ctx context.Context, region string) (json.RawMessage, error)
	Configured() bool
}
