package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultInferenceBaseURL is the hosted inference API root
const DefaultInferenceBaseURL = "https://api-inference.huggingface.co"

const maxInferenceResponse = 4 << 20

// InferenceClient is an HTTP client for a hosted image inference API
type InferenceClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewInferenceClient creates a new hosted inference client
func NewInferenceClient(baseURL, apiKey string, timeout time.Duration) *InferenceClient {
	if baseURL == "" {
		baseURL = DefaultInferenceBaseURL
	}
	return &InferenceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Infer posts raw image bytes to the model and returns the JSON body as is.
// Non-2xx responses are errors; payload shape is left to the caller.
func (c *InferenceClient) Infer(ctx context.Context, model string, image []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxInferenceResponse))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return json.RawMessage(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
