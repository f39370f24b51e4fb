package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptagent/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	o, err := NewOpenAI(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1/",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return o
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI(config.LLMConfig{})
	assert.Error(t, err)
}

func TestOpenAI_Complete(t *testing.T) {
	var got openai.ChatCompletionRequest
	o := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  1. Plan\n2. Do  \n"}},
			},
		})
	})

	out, err := o.Complete(context.Background(), "Analyze this")

	require.NoError(t, err)
	assert.Equal(t, "1. Plan\n2. Do", out)
	assert.Equal(t, openai.GPT3Dot5Turbo, got.Model)
	assert.Equal(t, 150, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	assert.Equal(t, "Analyze this", got.Messages[0].Content)
}

func TestOpenAI_NoChoices(t *testing.T) {
	o := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := o.Complete(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAI_APIError(t *testing.T) {
	o := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	_, err := o.Complete(context.Background(), "x")

	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
	assert.False(t, Retryable(err))
}
