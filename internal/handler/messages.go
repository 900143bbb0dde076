package handler

import (
	"encoding/json"
	"net/http"

	"github.com/chatbot-pro/chatd/internal/middleware"
	"github.com/chatbot-pro/chatd/internal/model"
	"github.com/chatbot-pro/chatd/internal/service"
	"github.com/chatbot-pro/chatd/pkg/logger"
)

// MessageHandler handles message endpoints.
type MessageHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.ConversationService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: svc,
		logger:  log,
	}
}

// Send handles POST /api/v1/messages — sends to the active conversation.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.Send(r.Context(), req.Content)
	if err != nil {
		h.logger.Error("failed to send message")
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}
	if conv == nil {
		writeError(w, http.StatusConflict, "no active conversation")
		return
	}

	writeJSON(w, http.StatusOK, &model.SendMessageResponse{Conversation: conv})
}

// InputHistory handles GET /api/v1/messages/history — recently submitted
// inputs, most recent first.
func (h *MessageHandler) InputHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"inputs": h.service.InputHistory(),
	})
}
