package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

const (
	// DefaultAdviceBaseURL is the OpenRouter OpenAI-compatible API root
	DefaultAdviceBaseURL = "https://openrouter.ai/api/v1"
	// DefaultAdviceModel is used when no model is configured
	DefaultAdviceModel = "deepseek/deepseek-chat-v3.1"

	// AdviceNotConfigured is returned verbatim when no API key is set
	AdviceNotConfigured = "AI service not configured (OPENROUTER_API_KEY missing)."

	adviceSystemPrompt = "You are an expert agricultural assistant. Answer concisely and include preventive and corrective steps when relevant."
)

// Advice request outcomes
const (
	AdviceOutcomeOK           = "ok"
	AdviceOutcomeFailed       = "failed"
	AdviceOutcomeUnconfigured = "unconfigured"
)

// AdviceRecorder counts advice outcomes
type AdviceRecorder interface {
	AdviceOutcome(outcome string)
}

// AdviceClient generates advisory text through an OpenAI-compatible chat API
type AdviceClient struct {
	oac      *openai.Client
	model    string
	recorder AdviceRecorder
	logger   *zap.Logger
}

// NewAdviceClient creates a new advice client. An empty apiKey yields a client
// that always returns AdviceNotConfigured.
func NewAdviceClient(baseURL, apiKey, model string, timeout time.Duration, recorder AdviceRecorder, logger *zap.Logger) *AdviceClient {
	if baseURL == "" {
		baseURL = DefaultAdviceBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if model == "" {
		model = DefaultAdviceModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &AdviceClient{model: model, recorder: recorder, logger: logger}
	if apiKey != "" {
		c.oac = openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(&http.Client{Timeout: timeout}),
			option.WithMaxRetries(0),
		)
	}
	return c
}

var _ service.Advisor = (*AdviceClient)(nil)

// GenerateText implements service.Advisor
func (c *AdviceClient) GenerateText(ctx context.Context, prompt string, maxTokens int) string {
	if c.oac == nil {
		c.record(AdviceOutcomeUnconfigured)
		return AdviceNotConfigured
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}

	resp, err := c.oac.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(adviceSystemPrompt),
			openai.UserMessage(prompt),
		}),
		Model:     openai.F(openai.ChatModel(c.model)),
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		c.logger.Warn("advice request failed", zap.String("model", c.model), zap.Error(err))
		c.record(AdviceOutcomeFailed)
		return "AI request failed: " + err.Error()
	}
	if len(resp.Choices) == 0 {
		c.record(AdviceOutcomeFailed)
		return "AI request failed: no choices returned"
	}

	c.record(AdviceOutcomeOK)
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

func (c *AdviceClient) record(outcome string) {
	if c.recorder != nil {
		c.recorder.AdviceOutcome(outcome)
	}
}
