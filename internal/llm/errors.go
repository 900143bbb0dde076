package llm

import (
	"fmt"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindProvider is a generic provider or transport failure.
	KindProvider Kind = iota
	// KindConfig means no API key was configured.
	KindConfig
	// KindAuth means the provider rejected the credential (HTTP 401).
	KindAuth
	// KindRateLimit means the provider throttled the request (HTTP 429).
	KindRateLimit
	// KindQuota means the account balance is exhausted (HTTP 402).
	KindQuota
	// KindBadRequest means the provider rejected the request shape (HTTP 400).
	KindBadRequest
)

// Error is a classified provider failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// kindForStatus maps an HTTP status to a failure kind.
func kindForStatus(status int) Kind {
	switch status {
	case 401:
		return KindAuth
	case 429:
		return KindRateLimit
	case 402:
		return KindQuota
	case 400:
		return KindBadRequest
	default:
		return KindProvider
	}
}

// errStatus builds a classified error from an HTTP status.
func errStatus(status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("API request failed with status %d", status)
	}
	return &Error{Kind: kindForStatus(status), Message: msg}
}
