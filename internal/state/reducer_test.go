package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chatbot-pro/chatd/internal/model"
)

func conv(id string) model.Conversation {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return model.Conversation{
		ID:        id,
		Title:     model.DefaultTitle,
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateConversationFrontAndActive(t *testing.T) {
	s := State{}
	s = Apply(s, CreateConversation{Conversation: conv("a")})
	s = Apply(s, CreateConversation{Conversation: conv("b")})
	s = Apply(s, CreateConversation{Conversation: conv("c")})

	assert.Equal(t, "c", s.ActiveID)
	assert.Equal(t, []string{"c", "b", "a"}, ids(s))
}

func TestSelectUnknownDeselects(t *testing.T) {
	s := Apply(State{}, CreateConversation{Conversation: conv("a")})
	assert.Equal(t, "a", s.ActiveID)

	s = Apply(s, SelectConversation{ID: "missing"})
	assert.Empty(t, s.ActiveID)
	assert.Nil(t, s.Active())
}

func TestAddMessageRefreshesUpdatedAt(t *testing.T) {
	s := Apply(State{}, CreateConversation{Conversation: conv("a")})

	ts := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)
	s = Apply(s, AddMessage{
		ConversationID: "a",
		Message:        model.Message{ID: "m1", Content: "hello", Timestamp: ts},
	})

	c := s.Find("a")
	assert.Len(t, c.Messages, 1)
	assert.True(t, c.UpdatedAt.Equal(ts))
}

func TestResolveMessageKeepsIdentity(t *testing.T) {
	s := Apply(State{}, CreateConversation{Conversation: conv("a")})
	s = Apply(s, AddMessage{
		ConversationID: "a",
		Message:        model.Message{ID: "ph", IsBot: true, IsTyping: true},
	})

	s = Apply(s, ResolveMessage{
		ConversationID: "a",
		MessageID:      "ph",
		Content:        "answer",
	})

	msg := s.Find("a").Messages[0]
	assert.Equal(t, "ph", msg.ID)
	assert.Equal(t, "answer", msg.Content)
	assert.False(t, msg.IsTyping)
	assert.False(t, msg.Failed)
}

func TestResolveMessageMissingTargetIsNoop(t *testing.T) {
	s := Apply(State{}, CreateConversation{Conversation: conv("a")})

	// Conversation gone.
	out := Apply(s, ResolveMessage{ConversationID: "deleted", MessageID: "ph", Content: "x"})
	assert.Equal(t, ids(s), ids(out))

	// Message gone.
	out = Apply(s, ResolveMessage{ConversationID: "a", MessageID: "ph", Content: "x"})
	assert.Empty(t, out.Find("a").Messages)
}

func TestDeleteActiveClearsSelection(t *testing.T) {
	s := Apply(State{}, CreateConversation{Conversation: conv("a")})
	s = Apply(s, CreateConversation{Conversation: conv("b")})

	s = Apply(s, DeleteConversation{ID: "b"})
	assert.Empty(t, s.ActiveID)
	assert.Equal(t, []string{"a"}, ids(s))

	// Deleting a non-active conversation keeps the selection.
	s = Apply(s, SelectConversation{ID: "a"})
	s = Apply(s, DeleteConversation{ID: "missing"})
	assert.Equal(t, "a", s.ActiveID)
}

func TestClearHistory(t *testing.T) {
	s := Apply(State{}, CreateConversation{Conversation: conv("a")})
	s = Apply(s, ClearHistory{})

	assert.Empty(t, s.Conversations)
	assert.Empty(t, s.ActiveID)
}

func TestSetConversationsKeepsResolvableSelection(t *testing.T) {
	s := Apply(State{}, CreateConversation{Conversation: conv("a")})

	s = Apply(s, SetConversations{Conversations: []model.Conversation{conv("a"), conv("b")}})
	assert.Equal(t, "a", s.ActiveID)

	s = Apply(s, SetConversations{Conversations: []model.Conversation{conv("b")}})
	assert.Empty(t, s.ActiveID)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	base := Apply(State{}, CreateConversation{Conversation: conv("a")})
	base = Apply(base, AddMessage{
		ConversationID: "a",
		Message:        model.Message{ID: "ph", IsBot: true, IsTyping: true},
	})

	_ = Apply(base, ResolveMessage{ConversationID: "a", MessageID: "ph", Content: "answer"})

	// The input state still holds the unresolved placeholder.
	msg := base.Find("a").Messages[0]
	assert.True(t, msg.IsTyping)
	assert.Empty(t, msg.Content)
}

func ids(s State) []string {
	out := make([]string, len(s.Conversations))
	for i, c := range s.Conversations {
		out[i] = c.ID
	}
	return out
}
