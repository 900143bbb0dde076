// Package auth manages the user registry and session tokens.
//
// The registry is a local mock database persisted through the store; tokens
// are HMAC-signed JWTs. None of this is a real trust boundary: the signing
// key lives on the same machine as the client.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatbot-pro/chatd/internal/model"
	"github.com/chatbot-pro/chatd/internal/store"
	"github.com/chatbot-pro/chatd/pkg/logger"
)

const minPasswordLen = 6

// Claims are the session token claims. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service handles registration, login, and session restoration.
type Service struct {
	repo     store.Repository
	secret   []byte
	tokenTTL time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new auth service.
func NewService(repo store.Repository, secret string, tokenTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   log,
		now:      time.Now,
	}
}

// Register creates a new user and returns a session for them.
func (s *Service) Register(ctx context.Context, email, password, name string) (*model.SessionResponse, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Email == email {
			return nil, ErrUserExists
		}
	}

	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	user := model.User{
		ID:    uuid.New().String(),
		Email: email,
		Name:  name,
	}

	if err := s.saveUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return s.openSession(ctx, user)
}

// Login authenticates an existing user and returns a session.
//
// The password is not verified against a stored hash; any password of
// sufficient length passes. This mirrors the mock credential scheme the
// client ships with.
func (s *Service) Login(ctx context.Context, email, password string) (*model.SessionResponse, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	var user *model.User
	for i := range users {
		if users[i].Email == email {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if len(password) < minPasswordLen {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, *user)
}

// Validate parses a session token and reconstructs the user. An expired or
// malformed token is reported as ErrInvalidToken and must be treated as an
// absent session.
func (s *Service) Validate(tokenString string) (*model.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &model.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}

// Restore reconstructs the session from the persisted token at startup.
// Returns nil with no error when no valid session exists; a stale token is
// erased.
func (s *Service) Restore(ctx context.Context) (*model.SessionResponse, error) {
	raw, err := s.repo.Get(ctx, store.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	user, err := s.Validate(string(raw))
	if err != nil {
		if derr := s.repo.Delete(ctx, store.KeyToken); derr != nil {
			s.logger.Warn("failed to erase stale token", zap.Error(derr))
		}
		return nil, nil
	}

	return &model.SessionResponse{User: user, Token: string(raw)}, nil
}

// Logout erases the persisted session and the conversation snapshot.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.repo.Delete(ctx, store.KeyToken); err != nil {
		return fmt.Errorf("erase token: %w", err)
	}
	if err := s.repo.Delete(ctx, store.KeyChats); err != nil {
		return fmt.Errorf("erase chats: %w", err)
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, user model.User) (*model.SessionResponse, error) {
	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.repo.Put(ctx, store.KeyToken, []byte(token)); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	return &model.SessionResponse{User: &user, Token: token}, nil
}

func (s *Service) issueToken(user model.User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: user.Email,
		Name:  user.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) loadUsers(ctx context.Context) ([]model.User, error) {
	raw, err := s.repo.Get(ctx, store.KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users []model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.repo.Put(ctx, store.KeyUsers, raw); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}
