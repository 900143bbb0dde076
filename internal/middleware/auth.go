// Package middleware provides HTTP middleware for the API surface.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chatbot-pro/chatd/internal/model"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserKey is the context key for the authenticated user.
	UserKey ContextKey = "user"
)

// TokenValidator reconstructs a user from a session token.
type TokenValidator interface {
	Validate(token string) (*model.User, error)
}

// Auth creates bearer-token authentication middleware. An invalid or
// expired token is treated the same as a missing one.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, `{"error":"invalid authorization header format"}`, http.StatusUnauthorized)
				return
			}

			user, err := validator.Validate(parts[1])
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser gets the authenticated user from context, or nil.
func GetUser(ctx context.Context) *model.User {
	if v := ctx.Value(UserKey); v != nil {
		return v.(*model.User)
	}
	return nil
}

// GetUserID gets the authenticated user's id from context.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.ID
	}
	return ""
}
