// Package chat wraps a model provider with per-conversation context and
// converts every failure into display text, so a send never surfaces an
// error to the rest of the application.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/chatbot-pro/chatd/internal/llm"
	"github.com/chatbot-pro/chatd/pkg/logger"
	"github.com/chatbot-pro/chatd/pkg/metrics"
)

// maxContextTurns caps the per-conversation context sent to the provider.
// Oldest turns are dropped first. This bounds both the outbound payload and
// the memory footprint of a long session.
const maxContextTurns = 20

// FallbackReply is the bot-authored text for a failure with no better
// classification.
const FallbackReply = "I apologize, but I'm having trouble responding right now. Please try again."

// systemPrompt establishes the assistant persona on a cold context.
const systemPrompt = "You are a helpful, knowledgeable, and friendly AI assistant. " +
	"Provide clear, accurate, and helpful responses to user questions. " +
	"Be conversational but professional."

// Client owns the conversation context cache and the provider call.
//
// The cache is keyed by conversation id and is in-memory only: a restarted
// process starts with an empty context and reinjects the system turn. The
// conversation store remains the source of truth for message content.
type Client struct {
	provider    llm.Client
	model       string
	temperature float64
	maxTokens   int
	logger      *logger.Logger

	mu      sync.Mutex
	context map[string][]llm.ChatMessage
}

// NewClient creates a chat client using the given provider and model.
func NewClient(provider llm.Client, model string, log *logger.Logger) *Client {
	return &Client{
		provider:    provider,
		model:       model,
		temperature: 0.7,
		maxTokens:   1000,
		logger:      log,
		context:     make(map[string][]llm.ChatMessage),
	}
}

// Send forwards content to the provider with the cached context for the
// conversation. It never returns an error: failures come back as
// human-readable display text with failed set to true.
func (c *Client) Send(ctx context.Context, conversationID, content string) (reply string, failed bool) {
	history := c.snapshot(conversationID)

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	if len(history) == 0 {
		messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: content})

	resp, err := c.provider.Complete(ctx, &llm.CompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.Warn("provider call failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		metrics.RecordCompletion(c.model, "error")
		return displayText(err), true
	}

	answer := strings.TrimSpace(resp.Content)

	c.append(conversationID, history,
		llm.ChatMessage{Role: "user", Content: content},
		llm.ChatMessage{Role: "assistant", Content: answer},
	)

	metrics.RecordCompletion(c.model, "success")
	metrics.RecordTokens(c.model, resp.TokensIn, resp.TokensOut)

	return answer, false
}

// ClearConversation discards the cached context for one conversation.
func (c *Client) ClearConversation(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.context, conversationID)
}

// ClearAll discards the entire context cache.
func (c *Client) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.context = make(map[string][]llm.ChatMessage)
}

// ContextLen reports the number of cached turns for a conversation.
func (c *Client) ContextLen(conversationID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.context[conversationID])
}

// snapshot copies the cached turns for a conversation.
func (c *Client) snapshot(conversationID string) []llm.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached := c.context[conversationID]
	out := make([]llm.ChatMessage, len(cached))
	copy(out, cached)
	return out
}

// append stores the new turns on top of the history observed by the send and
// trims to the most recent maxContextTurns.
func (c *Client) append(conversationID string, history []llm.ChatMessage, turns ...llm.ChatMessage) {
	updated := append(history, turns...)
	if excess := len(updated) - maxContextTurns; excess > 0 {
		metrics.ContextTurnsTrimmed.Add(float64(excess))
		updated = updated[excess:]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.context[conversationID] = updated
}

// displayText renders a provider failure as a bot-authored message.
func displayText(err error) string {
	var perr *llm.Error
	if !errors.As(err, &perr) {
		return FallbackReply
	}

	switch perr.Kind {
	case llm.KindConfig, llm.KindAuth:
		return "Authentication error: Please check your API key configuration"
	case llm.KindRateLimit:
		return "I'm receiving too many requests. Please try again in a few moments."
	case llm.KindQuota:
		return "API credits have been exhausted. Please check your account balance"
	case llm.KindBadRequest:
		return "There was an issue with the request format. Please try rephrasing your message"
	default:
		return fmt.Sprintf("I apologize, but I encountered an error: %s. Please try again.", perr.Message)
	}
}
