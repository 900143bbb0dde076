// Package model defines data structures for the chat client.
package model

import (
	"time"
)

// TitleMaxLen is the maximum derived title length before truncation.
const TitleMaxLen = 30

// DefaultTitle is the title of a conversation before its first message.
const DefaultTitle = "New Chat"

// Conversation represents a conversation thread.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeriveTitle computes a conversation title from its first user message.
func DeriveTitle(content string) string {
	if len(content) > TitleMaxLen {
		return content[:TitleMaxLen] + "..."
	}
	return content
}

// ExportedMessage is one message in an export artifact.
type ExportedMessage struct {
	Content   string    `json:"content"`
	IsBot     bool      `json:"isBot"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportedConversation is the downloadable export artifact for a conversation.
type ExportedConversation struct {
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"createdAt"`
	Messages  []ExportedMessage `json:"messages"`
}

// Export produces the export artifact for the conversation.
func (c *Conversation) Export() *ExportedConversation {
	msgs := make([]ExportedMessage, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = ExportedMessage{
			Content:   m.Content,
			IsBot:     m.IsBot,
			Timestamp: m.Timestamp,
		}
	}
	return &ExportedConversation{
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		Messages:  msgs,
	}
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	ActiveID      string         `json:"activeId,omitempty"`
	Loading       bool           `json:"loading"`
}
