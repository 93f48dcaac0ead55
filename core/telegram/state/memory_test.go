package state

import (
	"context"
	"sync"
	"testing"
)

const stateAwaiting State = "awaiting_test_input"

func TestMemoryManagerDefaultsToIdle(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	key := Key{UserID: 1, ChatID: 2}

	if st := m.State(ctx, key); st != StateIdle {
		t.Fatalf("expected idle, got %s", st)
	}
	if m.InProgress(ctx, key) {
		t.Fatal("expected no progress for unknown key")
	}
}

func TestMemoryManagerSetAndClear(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	key := Key{UserID: 1, ChatID: 2}

	if err := m.Set(ctx, key, stateAwaiting); err != nil {
		t.Fatalf("set: %v", err)
	}
	if st := m.State(ctx, key); st != stateAwaiting {
		t.Fatalf("expected %s, got %s", stateAwaiting, st)
	}
	if !m.InProgress(ctx, key) {
		t.Fatal("expected in progress")
	}

	// Sessions are scoped per chat: same user in another chat stays idle.
	other := Key{UserID: 1, ChatID: 3}
	if m.InProgress(ctx, other) {
		t.Fatal("session leaked across chats")
	}

	m.Clear(ctx, key)
	if st := m.State(ctx, key); st != StateIdle {
		t.Fatalf("expected idle after clear, got %s", st)
	}
}

func TestMemoryManagerCompareAndSwap(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	key := Key{UserID: 7, ChatID: 7}

	if !m.CompareAndSwap(ctx, key, StateIdle, stateAwaiting) {
		t.Fatal("expected idle->awaiting to succeed")
	}
	if m.CompareAndSwap(ctx, key, StateIdle, stateAwaiting) {
		t.Fatal("expected second idle->awaiting to fail")
	}
	if !m.CompareAndSwap(ctx, key, stateAwaiting, StateIdle) {
		t.Fatal("expected awaiting->idle to succeed")
	}
	if st := m.State(ctx, key); st != StateIdle {
		t.Fatalf("expected idle, got %s", st)
	}
}

func TestMemoryManagerCompareAndSwapSingleWinner(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	key := Key{UserID: 9, ChatID: 9}
	if err := m.Set(ctx, key, stateAwaiting); err != nil {
		t.Fatalf("set: %v", err)
	}

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.CompareAndSwap(ctx, key, stateAwaiting, StateIdle) {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one winner, got %d", count)
	}
}
