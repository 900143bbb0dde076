// Package service provides the conversation state store and send pipeline.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatbot-pro/chatd/internal/chat"
	"github.com/chatbot-pro/chatd/internal/history"
	"github.com/chatbot-pro/chatd/internal/model"
	"github.com/chatbot-pro/chatd/internal/state"
	"github.com/chatbot-pro/chatd/internal/store"
	"github.com/chatbot-pro/chatd/pkg/logger"
	"github.com/chatbot-pro/chatd/pkg/metrics"
)

// ConversationService owns the conversation state and drives all
// transitions through the reducer. I/O happens around dispatches, never
// inside them: the full collection is persisted after every transition that
// mutates it.
type ConversationService struct {
	chat    *chat.Client
	repo    store.Repository
	history *history.Manager
	logger  *logger.Logger

	mu    sync.Mutex
	state state.State

	now   func() time.Time
	newID func() string
}

// NewConversationService creates a new conversation service.
func NewConversationService(chatClient *chat.Client, repo store.Repository, hist *history.Manager, log *logger.Logger) *ConversationService {
	return &ConversationService{
		chat:    chatClient,
		repo:    repo,
		history: hist,
		logger:  log,
		now:     time.Now,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Load reads the persisted snapshot into state. Timestamps come back from
// their serialized ISO form; a missing snapshot starts the state empty.
func (s *ConversationService) Load(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, store.KeyChats)
	if err != nil {
		return fmt.Errorf("read chats snapshot: %w", err)
	}
	if raw == nil {
		return nil
	}

	var convs []model.Conversation
	if err := json.Unmarshal(raw, &convs); err != nil {
		return fmt.Errorf("decode chats snapshot: %w", err)
	}

	s.mu.Lock()
	s.state = state.Apply(s.state, state.SetConversations{Conversations: convs})
	s.mu.Unlock()

	s.logger.Info("conversations loaded", zap.Int("count", len(convs)))
	return nil
}

// Create allocates a new conversation, inserts it at the front of the
// collection, and makes it active.
func (s *ConversationService) Create(ctx context.Context) (*model.Conversation, error) {
	now := s.now()
	conv := model.Conversation{
		ID:        s.newID(),
		Title:     model.DefaultTitle,
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.state = state.Apply(s.state, state.CreateConversation{Conversation: conv})
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	metrics.ConversationsTotal.Inc()
	s.logger.Info("conversation created", zap.String("conversation_id", conv.ID))

	return &conv, nil
}

// Select sets the active conversation. An unknown id deselects silently.
func (s *ConversationService) Select(id string) {
	s.mu.Lock()
	s.state = state.Apply(s.state, state.SelectConversation{ID: id})
	s.mu.Unlock()
}

// Delete removes a conversation and discards its context cache entry. The
// active selection clears if it pointed at the deleted conversation.
func (s *ConversationService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.state = state.Apply(s.state, state.DeleteConversation{ID: id})
	s.mu.Unlock()

	s.chat.ClearConversation(id)

	return s.persist(ctx)
}

// ClearAll destroys every conversation, the whole context cache, and the
// persisted snapshot.
func (s *ConversationService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	s.state = state.Apply(s.state, state.ClearHistory{})
	s.mu.Unlock()

	s.chat.ClearAll()

	if err := s.repo.Delete(ctx, store.KeyChats); err != nil {
		return fmt.Errorf("erase chats snapshot: %w", err)
	}
	return nil
}

// Export produces the export artifact for a conversation, or nil if the id
// is unknown.
func (s *ConversationService) Export(id string) *model.ExportedConversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.state.Find(id)
	if conv == nil {
		return nil
	}
	return conv.Export()
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFilename builds the download filename for an exported conversation.
func ExportFilename(title string) string {
	return "chat-" + strings.ToLower(filenameSanitizer.ReplaceAllString(title, "_")) + ".json"
}

// List returns a snapshot of the collection plus the active id and loading
// flag.
func (s *ConversationService) List() *model.ListConversationsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs := make([]model.Conversation, len(s.state.Conversations))
	copy(convs, s.state.Conversations)

	return &model.ListConversationsResponse{
		Conversations: convs,
		ActiveID:      s.state.ActiveID,
		Loading:       s.state.Loading,
	}
}

// Active returns a copy of the active conversation, or nil.
func (s *ConversationService) Active() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.state.Active()
	if conv == nil {
		return nil
	}
	c := *conv
	return &c
}

// Loading reports whether a send is outstanding.
func (s *ConversationService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

// persist writes the full collection to the durable store.
func (s *ConversationService) persist(ctx context.Context) error {
	s.mu.Lock()
	convs := s.state.Conversations
	s.mu.Unlock()

	raw, err := json.Marshal(convs)
	if err != nil {
		return fmt.Errorf("encode chats snapshot: %w", err)
	}
	if err := s.repo.Put(ctx, store.KeyChats, raw); err != nil {
		return fmt.Errorf("persist chats snapshot: %w", err)
	}
	return nil
}
