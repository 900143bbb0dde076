package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionFixture(content string) string {
	return fmt.Sprintf(`{
		"id": "gen-1",
		"object": "chat.completion",
		"model": "openai/gpt-4o-mini",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}
		],
		"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
	}`, content)
}

func testRequest() *CompletionRequest {
	return &CompletionRequest{
		Model:       "openai/gpt-4o-mini",
		Messages:    []ChatMessage{{Role: "user", Content: "hello"}},
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

func TestCompleteSuccess(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionFixture("hi there"))
	}))
	defer srv.Close()

	client := NewOpenRouterClient(ProviderConfig{
		APIKey:   "sk-or-test",
		BaseURL:  srv.URL + "/v1",
		Referer:  "https://chatbot.example",
		AppTitle: "ChatBot Pro",
	})

	resp, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content)
	assert.Equal(t, 12, resp.TokensIn)
	assert.Equal(t, 5, resp.TokensOut)
	assert.Equal(t, "stop", resp.StopReason)

	assert.Equal(t, "Bearer sk-or-test", gotHeaders.Get("Authorization"))
	assert.Equal(t, "https://chatbot.example", gotHeaders.Get("HTTP-Referer"))
	assert.Equal(t, "ChatBot Pro", gotHeaders.Get("X-Title"))

	assert.Equal(t, "openai/gpt-4o-mini", gotBody["model"])
	assert.InDelta(t, 0.7, gotBody["temperature"].(float64), 1e-6)
	assert.InDelta(t, 1000, gotBody["max_tokens"].(float64), 1e-6)
}

func TestCompleteEmptyKeyIsConfigError(t *testing.T) {
	client := NewOpenRouterClient(ProviderConfig{})

	_, err := client.Complete(context.Background(), testRequest())
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindConfig, perr.Kind)
	assert.Equal(t, "OpenRouter API key not configured", perr.Message)
}

func TestCompleteStatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		wantKind Kind
		wantMsg  string
	}{
		{401, KindAuth, "Invalid API key. Please check your OpenRouter API key"},
		{429, KindRateLimit, "Rate limit exceeded. Please try again later"},
		{402, KindQuota, "Insufficient credits. Please check your OpenRouter account balance"},
		{400, KindBadRequest, "Invalid request. The model might not support this format"},
		{500, KindProvider, "API request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprintf(w, `{"error": {"message": "upstream says no", "type": "api_error"}}`)
			}))
			defer srv.Close()

			client := NewOpenRouterClient(ProviderConfig{APIKey: "sk-or-test", BaseURL: srv.URL + "/v1"})

			_, err := client.Complete(context.Background(), testRequest())
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantKind, perr.Kind)
			assert.Equal(t, tt.wantMsg, perr.Message)
		})
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "gen-1", "object": "chat.completion", "choices": []}`)
	}))
	defer srv.Close()

	client := NewOpenRouterClient(ProviderConfig{APIKey: "sk-or-test", BaseURL: srv.URL + "/v1"})

	_, err := client.Complete(context.Background(), testRequest())
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindProvider, perr.Kind)
	assert.Equal(t, "No response generated from the model", perr.Message)
}
