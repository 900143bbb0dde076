// Package llm provides model-provider client interfaces and implementations.
package llm

import (
	"context"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents one role-tagged chat turn for the provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for model providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of model provider.
type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderAnthropic  Provider = "anthropic"
)

// NewClient creates a new provider client.
func NewClient(provider Provider, cfg ProviderConfig) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey)
	default:
		return NewOpenRouterClient(cfg), nil
	}
}

// ProviderConfig carries provider construction settings.
type ProviderConfig struct {
	APIKey   string
	BaseURL  string
	Referer  string
	AppTitle string
}
