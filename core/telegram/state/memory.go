package state

import (
	"context"
	"sync"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[Key]State
}

// NewMemoryManager constructs an in-memory Manager implementation. Suitable
// for single-process deployments; sessions do not survive restarts.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[Key]State),
	}
}

// State returns the current state for the key, or StateIdle if none exists.
func (m *memoryManager) State(_ context.Context, key Key) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.sessions[key]; ok {
		return st
	}
	return StateIdle
}

// Set stores the state for the key; setting StateIdle removes the entry.
func (m *memoryManager) Set(_ context.Context, key Key, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == StateIdle {
		delete(m.sessions, key)
		return nil
	}
	m.sessions[key] = st
	return nil
}

// Clear removes the session entry for the key.
func (m *memoryManager) Clear(_ context.Context, key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// CompareAndSwap applies from -> to atomically under the manager lock.
func (m *memoryManager) CompareAndSwap(_ context.Context, key Key, from, to State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.sessions[key]
	if !ok {
		current = StateIdle
	}
	if current != from {
		return false
	}
	if to == StateIdle {
		delete(m.sessions, key)
	} else {
		m.sessions[key] = to
	}
	return true
}

// InProgress reports whether the key currently has an active FSM state.
func (m *memoryManager) InProgress(ctx context.Context, key Key) bool {
	return m.State(ctx, key) != StateIdle
}

// Close is a no-op for the in-memory backend.
func (m *memoryManager) Close() error {
	return nil
}
