package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the OpenRouter chat-completions API base.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterClient talks to the OpenRouter API, which speaks the OpenAI
// chat-completions wire format.
type OpenRouterClient struct {
	client *openai.Client
	apiKey string
}

// headerTransport injects the attribution headers OpenRouter expects on
// every request.
type headerTransport struct {
	base     http.RoundTripper
	referer  string
	appTitle string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.appTitle != "" {
		req.Header.Set("X-Title", t.appTitle)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewOpenRouterClient creates a new OpenRouter client. An empty API key is
// allowed at construction time; calls will fail with a configuration error.
func NewOpenRouterClient(cfg ProviderConfig) *OpenRouterClient {
	c := openai.DefaultConfig(cfg.APIKey)
	c.BaseURL = cfg.BaseURL
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.HTTPClient = &http.Client{
		Transport: &headerTransport{
			referer:  cfg.Referer,
			appTitle: cfg.AppTitle,
		},
	}

	return &OpenRouterClient{
		client: openai.NewClientWithConfig(c),
		apiKey: cfg.APIKey,
	}
}

// Name returns the provider name.
func (c *OpenRouterClient) Name() string {
	return "openrouter"
}

// Models returns available models.
func (c *OpenRouterClient) Models() []string {
	return []string{
		"openai/gpt-4o-mini",
		"anthropic/claude-3.5-sonnet",
		"meta-llama/llama-3.1-8b-instruct",
		"mistralai/mistral-7b-instruct",
	}
}

// Complete sends a completion request.
func (c *OpenRouterClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: KindConfig, Message: "OpenRouter API key not configured"}
	}

	start := time.Now()

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &Error{Kind: KindProvider, Message: "No response generated from the model"}
	}

	choice := resp.Choices[0]

	return &CompletionResponse{
		Content:    choice.Message.Content,
		Model:      resp.Model,
		TokensIn:   resp.Usage.PromptTokens,
		TokensOut:  resp.Usage.CompletionTokens,
		StopReason: string(choice.FinishReason),
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}

// classify converts a go-openai error into a classified provider error.
func classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return errStatus(apiErr.HTTPStatusCode, statusMessage(apiErr.HTTPStatusCode))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return errStatus(reqErr.HTTPStatusCode, statusMessage(reqErr.HTTPStatusCode))
	}

	return &Error{Kind: KindProvider, Message: "Failed to get a response from the AI model"}
}

// statusMessage returns the human-readable message for a known HTTP status,
// or "" to fall back to the generic status text.
func statusMessage(status int) string {
	switch status {
	case 401:
		return "Invalid API key. Please check your OpenRouter API key"
	case 429:
		return "Rate limit exceeded. Please try again later"
	case 402:
		return "Insufficient credits. Please check your OpenRouter account balance"
	case 400:
		return "Invalid request. The model might not support this format"
	default:
		return ""
	}
}
