package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatbot-pro/chatd/internal/auth"
	"github.com/chatbot-pro/chatd/internal/middleware"
	"github.com/chatbot-pro/chatd/internal/model"
	"github.com/chatbot-pro/chatd/pkg/logger"
)

// AuthHandler handles registration, login, and session endpoints.
type AuthHandler struct {
	service *auth.Service
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *auth.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  log,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Session handles GET /api/v1/auth/session — restores the persisted
// session, if any.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Restore(r.Context())
	if err != nil {
		h.logger.Error("failed to restore session")
		writeError(w, http.StatusInternalServerError, "failed to restore session")
		return
	}
	if session == nil {
		writeError(w, http.StatusUnauthorized, "no active session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		h.logger.Error("failed to log out")
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeAuthError maps auth domain errors to HTTP statuses.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "authentication failed")
	}
}
