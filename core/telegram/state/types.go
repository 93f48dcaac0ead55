package state

import (
	"context"

	tele "gopkg.in/telebot.v4"
)

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation for the key.
	StateIdle State = "idle"
)

// Key identifies a conversation. A user has independent sessions per chat.
type Key struct {
	UserID int64
	ChatID int64
}

// KeyOf extracts the session key from an inbound update.
func KeyOf(c tele.Context) Key {
	var k Key
	if u := c.Sender(); u != nil {
		k.UserID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		k.ChatID = ch.ID
	}
	return k
}

// Manager orchestrates conversation sessions and FSM state transitions.
// Implementations must make every transition atomic per key.
type Manager interface {
	// State returns the current state for the key, StateIdle when absent.
	State(ctx context.Context, key Key) State
	// Set unconditionally stores the state; StateIdle removes the entry.
	Set(ctx context.Context, key Key, st State) error
	// Clear removes the session entry, best effort.
	Clear(ctx context.Context, key Key)
	// CompareAndSwap transitions from -> to only if the current state equals
	// from, and reports whether the transition was applied.
	CompareAndSwap(ctx context.Context, key Key, from, to State) bool
	// InProgress reports whether the key has an active non-idle state.
	InProgress(ctx context.Context, key Key) bool
	// Close releases backend resources.
	Close() error
}
