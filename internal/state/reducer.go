package state

import (
	"github.com/chatbot-pro/chatd/internal/model"
)

// Action is a state transition message.
type Action interface {
	isAction()
}

// CreateConversation inserts a new conversation at the front of the
// collection and makes it active.
type CreateConversation struct {
	Conversation model.Conversation
}

// SelectConversation sets the active conversation, deselecting silently if
// the id is unknown.
type SelectConversation struct {
	ID string
}

// SetConversations replaces the whole collection, e.g. when loading a
// persisted snapshot. Active selection is kept if it still resolves.
type SetConversations struct {
	Conversations []model.Conversation
}

// AddMessage appends a message to a conversation and refreshes its UpdatedAt.
type AddMessage struct {
	ConversationID string
	Message        model.Message
}

// ResolveMessage applies the single placeholder-to-final mutation to a
// message by id. It is a no-op, not a fault, when the conversation or the
// message no longer exists by the time it is dispatched.
type ResolveMessage struct {
	ConversationID string
	MessageID      string
	Content        string
	Failed         bool
}

// Retitle replaces a conversation's title.
type Retitle struct {
	ConversationID string
	Title          string
}

// DeleteConversation removes a conversation; if it was active, active
// becomes none.
type DeleteConversation struct {
	ID string
}

// ClearHistory empties the collection and clears the active selection.
type ClearHistory struct{}

// SetLoading sets the global loading flag.
type SetLoading struct {
	Loading bool
}

func (CreateConversation) isAction() {}
func (SelectConversation) isAction() {}
func (SetConversations) isAction()   {}
func (AddMessage) isAction()         {}
func (ResolveMessage) isAction()     {}
func (Retitle) isAction()            {}
func (DeleteConversation) isAction() {}
func (ClearHistory) isAction()       {}
func (SetLoading) isAction()         {}

// Apply maps an input state and an action to an output state. The input
// state is never mutated; conversations touched by the transition are copied.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case CreateConversation:
		convs := make([]model.Conversation, 0, len(s.Conversations)+1)
		convs = append(convs, a.Conversation)
		convs = append(convs, s.Conversations...)
		s.Conversations = convs
		s.ActiveID = a.Conversation.ID
		return s

	case SelectConversation:
		if s.Find(a.ID) != nil {
			s.ActiveID = a.ID
		} else {
			s.ActiveID = ""
		}
		return s

	case SetConversations:
		s.Conversations = a.Conversations
		if s.Find(s.ActiveID) == nil {
			s.ActiveID = ""
		}
		return s

	case AddMessage:
		s.Conversations = mapConversation(s.Conversations, a.ConversationID, func(c model.Conversation) model.Conversation {
			msgs := make([]model.Message, 0, len(c.Messages)+1)
			msgs = append(msgs, c.Messages...)
			msgs = append(msgs, a.Message)
			c.Messages = msgs
			c.UpdatedAt = a.Message.Timestamp
			return c
		})
		return s

	case ResolveMessage:
		s.Conversations = mapConversation(s.Conversations, a.ConversationID, func(c model.Conversation) model.Conversation {
			msgs := make([]model.Message, len(c.Messages))
			copy(msgs, c.Messages)
			for i := range msgs {
				if msgs[i].ID == a.MessageID {
					msgs[i].Content = a.Content
					msgs[i].IsTyping = false
					msgs[i].Failed = a.Failed
				}
			}
			c.Messages = msgs
			return c
		})
		return s

	case Retitle:
		s.Conversations = mapConversation(s.Conversations, a.ConversationID, func(c model.Conversation) model.Conversation {
			c.Title = a.Title
			return c
		})
		return s

	case DeleteConversation:
		convs := make([]model.Conversation, 0, len(s.Conversations))
		for _, c := range s.Conversations {
			if c.ID != a.ID {
				convs = append(convs, c)
			}
		}
		s.Conversations = convs
		if s.ActiveID == a.ID {
			s.ActiveID = ""
		}
		return s

	case ClearHistory:
		s.Conversations = nil
		s.ActiveID = ""
		return s

	case SetLoading:
		s.Loading = a.Loading
		return s
	}

	return s
}

// mapConversation returns a copy of convs with fn applied to the conversation
// matching id. Unmatched ids leave the collection unchanged.
func mapConversation(convs []model.Conversation, id string, fn func(model.Conversation) model.Conversation) []model.Conversation {
	out := make([]model.Conversation, len(convs))
	for i, c := range convs {
		if c.ID == id {
			out[i] = fn(c)
		} else {
			out[i] = c
		}
	}
	return out
}
