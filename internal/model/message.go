package model

import (
	"time"
)

// Role represents the role of a chat turn sent to the model provider.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single message in a conversation.
//
// A bot message is first inserted as a typing placeholder (IsTyping true,
// empty content) and later resolved in place exactly once; its ID is stable
// across that mutation. Failed marks bot messages whose content is an error
// rendering rather than a model response.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsBot     bool      `json:"isBot"`
	Timestamp time.Time `json:"timestamp"`
	IsTyping  bool      `json:"isTyping,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
}

// SendMessageRequest is the request to send a message to the active conversation.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResponse is the response after a send completes.
type SendMessageResponse struct {
	Conversation *Conversation `json:"conversation"`
}
