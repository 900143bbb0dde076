package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/chatbot-pro/chatd/internal/chat"
	"github.com/chatbot-pro/chatd/internal/model"
	"github.com/chatbot-pro/chatd/internal/state"
	"github.com/chatbot-pro/chatd/pkg/metrics"
)

// Send runs the message pipeline against the active conversation:
//
//  1. append the user message (deriving the title on a first message),
//  2. append a typing placeholder and raise the loading flag,
//  3. call the chat client,
//  4. resolve the placeholder in place with the reply or error text.
//
// The placeholder and loading flag are reflected in state before the
// provider call starts. Resolution is keyed by the placeholder id and is a
// silent no-op if the conversation or message was deleted mid-flight. Send
// is a no-op returning (nil, nil) when no conversation is active.
func (s *ConversationService) Send(ctx context.Context, content string) (*model.Conversation, error) {
	now := s.now()

	userMsg := model.Message{
		ID:        s.newID(),
		Content:   content,
		Timestamp: now,
	}
	placeholder := model.Message{
		ID:        s.newID(),
		IsBot:     true,
		Timestamp: now,
		IsTyping:  true,
	}

	s.mu.Lock()
	active := s.state.Active()
	if active == nil {
		s.mu.Unlock()
		return nil, nil
	}
	conversationID := active.ID
	firstMessage := len(active.Messages) == 0

	s.state = state.Apply(s.state, state.AddMessage{ConversationID: conversationID, Message: userMsg})
	if firstMessage {
		s.state = state.Apply(s.state, state.Retitle{
			ConversationID: conversationID,
			Title:          model.DeriveTitle(content),
		})
	}
	s.state = state.Apply(s.state, state.AddMessage{ConversationID: conversationID, Message: placeholder})
	s.state = state.Apply(s.state, state.SetLoading{Loading: true})
	s.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()

	// Loading clears on every path, including the persist failures below.
	defer func() {
		s.mu.Lock()
		s.state = state.Apply(s.state, state.SetLoading{Loading: false})
		s.mu.Unlock()
	}()

	if err := s.persist(ctx); err != nil {
		// The placeholder must not stay typing forever.
		s.resolve(conversationID, placeholder.ID, chat.FallbackReply, true)
		return nil, err
	}

	if err := s.history.Add(ctx, content); err != nil {
		s.logger.Warn("failed to record input history", zap.Error(err))
	}

	reply, failed := s.chat.Send(ctx, conversationID, content)

	result := s.resolve(conversationID, placeholder.ID, reply, failed)

	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// resolve fills the typing placeholder in place and returns a copy of the
// updated conversation, or nil if it was deleted mid-flight.
func (s *ConversationService) resolve(conversationID, messageID, content string, failed bool) *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Apply(s.state, state.ResolveMessage{
		ConversationID: conversationID,
		MessageID:      messageID,
		Content:        content,
		Failed:         failed,
	})

	conv := s.state.Find(conversationID)
	if conv == nil {
		return nil
	}
	c := *conv
	return &c
}

// InputHistory returns recently submitted inputs, most recent first.
func (s *ConversationService) InputHistory() []string {
	return s.history.Recent()
}
