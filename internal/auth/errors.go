package auth

import (
	"errors"
)

// Domain errors. Unlike chat-send failures, these propagate to the caller,
// which is expected to present them as form validation feedback.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidToken       = errors.New("invalid token")
)
