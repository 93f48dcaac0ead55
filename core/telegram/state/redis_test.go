package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisManager(t *testing.T) Manager {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	m, err := NewRedisManager(RedisOptions{Addr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestRedisManagerRoundTrip(t *testing.T) {
	m := newTestRedisManager(t)
	ctx := context.Background()
	key := Key{UserID: 10, ChatID: 20}

	if st := m.State(ctx, key); st != StateIdle {
		t.Fatalf("expected idle, got %s", st)
	}
	if err := m.Set(ctx, key, stateAwaiting); err != nil {
		t.Fatalf("set: %v", err)
	}
	if st := m.State(ctx, key); st != stateAwaiting {
		t.Fatalf("expected %s, got %s", stateAwaiting, st)
	}
	if !m.InProgress(ctx, key) {
		t.Fatal("expected in progress")
	}

	m.Clear(ctx, key)
	if m.InProgress(ctx, key) {
		t.Fatal("expected idle after clear")
	}
}

func TestRedisManagerCompareAndSwap(t *testing.T) {
	m := newTestRedisManager(t)
	ctx := context.Background()
	key := Key{UserID: 10, ChatID: 20}

	if !m.CompareAndSwap(ctx, key, StateIdle, stateAwaiting) {
		t.Fatal("expected idle->awaiting to succeed")
	}
	if m.CompareAndSwap(ctx, key, StateIdle, stateAwaiting) {
		t.Fatal("expected repeat idle->awaiting to fail")
	}
	if !m.CompareAndSwap(ctx, key, stateAwaiting, StateIdle) {
		t.Fatal("expected awaiting->idle to succeed")
	}
	// Transition to idle must delete the key entirely.
	if m.InProgress(ctx, key) {
		t.Fatal("expected key removed after idle transition")
	}
}

func TestRedisManagerSetIdleRemovesKey(t *testing.T) {
	m := newTestRedisManager(t)
	ctx := context.Background()
	key := Key{UserID: 1, ChatID: 1}

	if err := m.Set(ctx, key, stateAwaiting); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Set(ctx, key, StateIdle); err != nil {
		t.Fatalf("set idle: %v", err)
	}
	if st := m.State(ctx, key); st != StateIdle {
		t.Fatalf("expected idle, got %s", st)
	}
}
