package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/ishulazy/Venomm/core/logger"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger.L = discard
	logger.TG = discard
	logger.TWire = discard
	os.Exit(m.Run())
}

// fakeContext implements the slice of tele.Context the middleware touches.
// Anything else panics through the embedded nil interface, which is what a
// test should do if the code under test starts calling more.
type fakeContext struct {
	tele.Context
	update tele.Update
	sender *tele.User
	chat   *tele.Chat
	values map[string]interface{}
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: 1},
		sender: &tele.User{ID: userID},
		chat:   &tele.Chat{ID: 100},
		values: make(map[string]interface{}),
	}
}

func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Sender() *tele.User  { return f.sender }
func (f *fakeContext) Chat() *tele.Chat    { return f.chat }

func (f *fakeContext) Get(key string) interface{} { return f.values[key] }

func (f *fakeContext) Set(key string, val interface{}) { f.values[key] = val }

func TestAdminOnlyMiddlewareRejectsNonAdmin(t *testing.T) {
	writes := 0
	next := func(c tele.Context) error {
		writes++
		return nil
	}
	rejected := 0
	opts := AdminOptions{
		Check: func(ctx context.Context, userID int64) (bool, error) {
			if userID != 42 {
				t.Fatalf("Check called with user %d, want 42", userID)
			}
			return false, nil
		},
		OnReject: func(c tele.Context) error {
			rejected++
			return nil
		},
	}

	h := AdminOnlyMiddleware(opts)(next)
	if err := h(newFakeContext(42)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if writes != 0 {
		t.Fatalf("privileged handler ran %d times for a non-admin", writes)
	}
	if rejected != 1 {
		t.Fatalf("OnReject ran %d times, want 1", rejected)
	}
}

func TestAdminOnlyMiddlewareRejectsOnOracleError(t *testing.T) {
	// A failing membership lookup degrades to "not an admin" even when the
	// oracle claims success alongside the error.
	writes := 0
	next := func(c tele.Context) error {
		writes++
		return nil
	}
	rejected := 0
	opts := AdminOptions{
		Check: func(ctx context.Context, userID int64) (bool, error) {
			return true, errors.New("chat unreachable")
		},
		OnReject: func(c tele.Context) error {
			rejected++
			return nil
		},
	}

	h := AdminOnlyMiddleware(opts)(next)
	if err := h(newFakeContext(42)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if writes != 0 {
		t.Fatalf("privileged handler ran %d times on oracle failure", writes)
	}
	if rejected != 1 {
		t.Fatalf("OnReject ran %d times, want 1", rejected)
	}
}

func TestAdminOnlyMiddlewareAllowsAdmin(t *testing.T) {
	writes := 0
	next := func(c tele.Context) error {
		writes++
		return nil
	}
	opts := AdminOptions{
		Check: func(ctx context.Context, userID int64) (bool, error) {
			return true, nil
		},
		OnReject: func(c tele.Context) error {
			t.Fatal("OnReject ran for an admin")
			return nil
		},
	}

	h := AdminOnlyMiddleware(opts)(next)
	if err := h(newFakeContext(42)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if writes != 1 {
		t.Fatalf("privileged handler ran %d times, want 1", writes)
	}
}

func TestAdminOnlyMiddlewareRejectsMissingSender(t *testing.T) {
	rejected := 0
	opts := AdminOptions{
		Check: func(ctx context.Context, userID int64) (bool, error) {
			t.Fatal("Check ran without a sender")
			return true, nil
		},
		OnReject: func(c tele.Context) error {
			rejected++
			return nil
		},
	}

	c := newFakeContext(0)
	c.sender = nil
	h := AdminOnlyMiddleware(opts)(func(tele.Context) error {
		t.Fatal("privileged handler ran without a sender")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rejected != 1 {
		t.Fatalf("OnReject ran %d times, want 1", rejected)
	}
}
