// Package store provides durable local persistence for the chat client.
//
// The store is a small key-value surface scoped to the local profile; the
// services own the serialization of whatever they keep under each key.
package store

import (
	"context"
)

// Well-known keys.
const (
	KeyToken        = "token"
	KeyChats        = "chats"
	KeyUsers        = "users"
	KeyInputHistory = "inputHistory"
)

// Repository defines the interface for local durable state.
type Repository interface {
	// Get retrieves the value for a key. A missing key returns (nil, nil).
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores a value under a key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error
}
