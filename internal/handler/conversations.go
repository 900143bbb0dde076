// Package handler provides HTTP handlers for the API surface.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chatbot-pro/chatd/internal/middleware"
	"github.com/chatbot-pro/chatd/internal/service"
	"github.com/chatbot-pro/chatd/pkg/logger"
)

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	conv, err := h.service.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create conversation")
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List())
}

// Select handles POST /api/v1/conversations/{id}/select
//
// An unknown id deselects rather than erroring; the response is 204 either
// way so the client convention survives the transport.
func (h *ConversationHandler) Select(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.service.Select(conversationID)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), conversationID); err != nil {
		h.logger.Error("failed to delete conversation")
		writeError(w, http.StatusInternalServerError, "failed to delete conversation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/v1/conversations/{id}/export — responds with the
// downloadable artifact.
func (h *ConversationHandler) Export(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	artifact := h.service.Export(conversationID)
	if artifact == nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename(artifact.Title)+`"`)
	writeJSON(w, http.StatusOK, artifact)
}

// Clear handles DELETE /api/v1/conversations — destroys all conversations
// and the persisted snapshot.
func (h *ConversationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAll(r.Context()); err != nil {
		h.logger.Error("failed to clear history")
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
