package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type outcomes struct {
	mu   sync.Mutex
	seen []string
}

func (o *outcomes) AdviceOutcome(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, outcome)
}

func TestAdviceClient_NotConfigured(t *testing.T) {
	rec := &outcomes{}
	c := NewAdviceClient("", "", "", time.Second, rec, nil)

	text := c.GenerateText(context.Background(), "what is an aphid?", 100)

	assert.Equal(t, AdviceNotConfigured, text)
	assert.Equal(t, []string{AdviceOutcomeUnconfigured}, rec.seen)
}

func TestAdviceClient_GenerateText(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "test/model", body.Model)
		assert.Equal(t, 256, body.MaxTokens)
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, "user", body.Messages[1].Role)
			// content is sent either as a plain string or as an array of text parts
			assert.Contains(t, string(body.Messages[1].Content), "describe aphids")
		}

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"id": "gen-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test/model",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "  Aphids are sap-sucking insects.\n"}
			}]
		}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	rec := &outcomes{}
	c := NewAdviceClient(server.URL+"/api/v1", "or-key", "test/model", 5*time.Second, rec, nil)

	text := c.GenerateText(context.Background(), "describe aphids", 256)

	assert.Equal(t, "Aphids are sap-sucking insects.", text)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{AdviceOutcomeOK}, rec.seen)
}

func TestAdviceClient_Failure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
	}))
	defer server.Close()

	rec := &outcomes{}
	c := NewAdviceClient(server.URL, "or-key", "", 5*time.Second, rec, nil)

	text := c.GenerateText(context.Background(), "p", 0)

	assert.Contains(t, text, "AI request failed: ")
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{AdviceOutcomeFailed}, rec.seen)
}

func TestAdviceClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer server.Close()

	c := NewAdviceClient(server.URL, "or-key", "m", 5*time.Second, nil, nil)

	assert.Equal(t, "AI request failed: no choices returned", c.GenerateText(context.Background(), "p", 10))
}

func TestAdviceClient_Unreachable(t *testing.T) {
	c := NewAdviceClient("http://localhost:99999", "or-key", "m", time.Second, nil, nil)

	assert.Contains(t, c.GenerateText(context.Background(), "p", 10), "AI request failed: ")
}
