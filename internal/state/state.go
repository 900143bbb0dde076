// Package state models the conversation collection as an explicit state
// machine: a fixed set of actions, each mapping an input state
// deterministically to an output state. Transitions perform no I/O;
// persistence and network calls are driven by observers of the resulting
// state.
package state

import (
	"github.com/chatbot-pro/chatd/internal/model"
)

// State is the full conversation-collection state.
type State struct {
	Conversations []model.Conversation
	ActiveID      string
	Loading       bool
}

// Active returns the active conversation, or nil if none is selected.
func (s State) Active() *model.Conversation {
	return s.Find(s.ActiveID)
}

// Find returns the conversation with the given id, or nil.
func (s State) Find(id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for i := range s.Conversations {
		if s.Conversations[i].ID == id {
			return &s.Conversations[i]
		}
	}
	return nil
}
