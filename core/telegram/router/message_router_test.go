package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/ishulazy/Venomm/core/logger"
	tg "github.com/ishulazy/Venomm/core/telegram"
	"github.com/ishulazy/Venomm/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger.L = discard
	logger.TG = discard
	logger.TWire = discard
	os.Exit(m.Run())
}

// fakeContext implements the slice of tele.Context the routers touch.
type fakeContext struct {
	tele.Context
	update tele.Update
	sender *tele.User
	chat   *tele.Chat
	values map[string]interface{}
}

func newTextContext(text string, userID int64) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: 1, Message: &tele.Message{Text: text}},
		sender: &tele.User{ID: userID},
		chat:   &tele.Chat{ID: 100},
		values: make(map[string]interface{}),
	}
}

func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Sender() *tele.User  { return f.sender }
func (f *fakeContext) Chat() *tele.Chat    { return f.chat }
func (f *fakeContext) Text() string        { return f.update.Message.Text }

func (f *fakeContext) Get(key string) interface{} { return f.values[key] }

func (f *fakeContext) Set(key string, val interface{}) { f.values[key] = val }

type fakeFSM struct {
	active  bool
	handled int
}

func (f *fakeFSM) InProgress(c tele.Context) bool { return f.active }

func (f *fakeFSM) Handle(c tele.Context) error {
	f.handled++
	return nil
}

func findRoute(t *testing.T, routes []tg.Route, endpoint string) tele.HandlerFunc {
	t.Helper()
	for _, r := range routes {
		if r.Endpoint == endpoint {
			return r.Handler
		}
	}
	t.Fatalf("no route for endpoint %q", endpoint)
	return nil
}

func TestTextRouteIgnoresCommandText(t *testing.T) {
	// Command text typed as a plain message must not reach the command
	// handler: that path would skip the admin gate. It falls through to
	// the text fallback instead.
	grants := 0
	reg := tg.NewRegistry()
	reg.RegisterCommand("/approve", commands.Command{
		Handler: func(c tele.Context) error {
			grants++
			return nil
		},
		Description: "grant a plan",
		AdminOnly:   true,
	})
	fallbacks := 0
	reg.SetTextFallback(func(c tele.Context) error {
		fallbacks++
		return nil
	})

	routes := TextRoutes(nil, reg, TextOptions{})
	if len(routes) != 1 || routes[0].Endpoint != tele.OnText {
		t.Fatalf("want a single OnText route, got %+v", routes)
	}

	if err := routes[0].Handler(newTextContext("/approve 555 1 30", 7)); err != nil {
		t.Fatalf("text route returned error: %v", err)
	}
	if grants != 0 {
		t.Fatalf("command handler ran %d times via the text route", grants)
	}
	if fallbacks != 1 {
		t.Fatalf("text fallback ran %d times, want 1", fallbacks)
	}
}

func TestTextRoutePrefersActiveConversation(t *testing.T) {
	fsm := &fakeFSM{active: true}
	reg := tg.NewRegistry()
	reg.SetTextFallback(func(c tele.Context) error {
		t.Fatal("fallback ran while a conversation was active")
		return nil
	})

	routes := TextRoutes(fsm, reg, TextOptions{})
	if err := routes[0].Handler(newTextContext("1.2.3.4 80 60", 7)); err != nil {
		t.Fatalf("text route returned error: %v", err)
	}
	if fsm.handled != 1 {
		t.Fatalf("conversation handler ran %d times, want 1", fsm.handled)
	}
}

func TestTextRouteUnknownText(t *testing.T) {
	unknown := 0
	routes := TextRoutes(nil, tg.NewRegistry(), TextOptions{
		UnknownText: func(c tele.Context) error {
			unknown++
			return nil
		},
	})
	if err := routes[0].Handler(newTextContext("hello", 7)); err != nil {
		t.Fatalf("text route returned error: %v", err)
	}
	if unknown != 1 {
		t.Fatalf("unknown-text handler ran %d times, want 1", unknown)
	}
}

func TestCommandRoutesGateAdminOnly(t *testing.T) {
	// The wrapped /approve route is the only way the handler can be
	// reached, so a non-admin must hit the reject path and never the
	// underlying subscription write.
	var approved []int64
	reg := tg.NewRegistry()
	reg.RegisterCommand("/approve", commands.Command{
		Handler: func(c tele.Context) error {
			approved = append(approved, c.Sender().ID)
			return nil
		},
		Description: "grant a plan",
		AdminOnly:   true,
	})

	rejected := 0
	routes := CommandRoutes(reg, CommandRouteOptions{
		AdminCheck: func(ctx context.Context, userID int64) (bool, error) {
			return userID == 1, nil
		},
		OnAdminReject: func(c tele.Context) error {
			rejected++
			return nil
		},
	})
	h := findRoute(t, routes, "/approve")

	if err := h(newTextContext("/approve 555 1 30", 7)); err != nil {
		t.Fatalf("route returned error: %v", err)
	}
	if len(approved) != 0 {
		t.Fatalf("subscription write happened for a non-admin: %v", approved)
	}
	if rejected != 1 {
		t.Fatalf("OnAdminReject ran %d times, want 1", rejected)
	}

	if err := h(newTextContext("/approve 555 1 30", 1)); err != nil {
		t.Fatalf("route returned error: %v", err)
	}
	if len(approved) != 1 || approved[0] != 1 {
		t.Fatalf("admin write not recorded, got %v", approved)
	}
}

func TestCommandRoutesRejectOnOracleError(t *testing.T) {
	ran := 0
	reg := tg.NewRegistry()
	reg.RegisterCommand("/approve", commands.Command{
		Handler: func(c tele.Context) error {
			ran++
			return nil
		},
		Description: "grant a plan",
		AdminOnly:   true,
	})

	rejected := 0
	routes := CommandRoutes(reg, CommandRouteOptions{
		AdminCheck: func(ctx context.Context, userID int64) (bool, error) {
			return false, errors.New("chat unreachable")
		},
		OnAdminReject: func(c tele.Context) error {
			rejected++
			return nil
		},
	})
	h := findRoute(t, routes, "/approve")

	if err := h(newTextContext("/approve 555 1 30", 7)); err != nil {
		t.Fatalf("route returned error: %v", err)
	}
	if ran != 0 {
		t.Fatalf("handler ran %d times on oracle failure", ran)
	}
	if rejected != 1 {
		t.Fatalf("OnAdminReject ran %d times, want 1", rejected)
	}
}
