// Package history keeps a bounded record of submitted message inputs.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chatbot-pro/chatd/internal/store"
)

// maxEntries caps the retained inputs, most recent first.
const maxEntries = 50

// Manager persists the most recently submitted inputs.
type Manager struct {
	repo store.Repository

	mu      sync.Mutex
	entries []string
}

// NewManager creates a new input history manager.
func NewManager(repo store.Repository) *Manager {
	return &Manager{repo: repo}
}

// Load reads the persisted history. A missing or corrupted record starts
// the history empty.
func (m *Manager) Load(ctx context.Context) error {
	raw, err := m.repo.Get(ctx, store.KeyInputHistory)
	if err != nil {
		return fmt.Errorf("read input history: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, &m.entries); err != nil {
		m.entries = nil
	}
	return nil
}

// Add records an input at the front of the history and persists it.
func (m *Manager) Add(ctx context.Context, input string) error {
	m.mu.Lock()
	entries := make([]string, 0, len(m.entries)+1)
	entries = append(entries, input)
	entries = append(entries, m.entries...)
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	m.entries = entries
	m.mu.Unlock()

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode input history: %w", err)
	}
	if err := m.repo.Put(ctx, store.KeyInputHistory, raw); err != nil {
		return fmt.Errorf("persist input history: %w", err)
	}
	return nil
}

// Recent returns the retained inputs, most recent first.
func (m *Manager) Recent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}
