package state

import (
	"github.com/ishulazy/Venomm/core/logger"
	tghelpers "github.com/ishulazy/Venomm/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

var fsmHandlers = map[State]tele.HandlerFunc{}

// RegisterHandler associates a state with its handler.
func RegisterHandler(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	fsmHandlers[st] = h
}

// Router adapts a Manager to the message router's FSM hooks.
type Router struct {
	Mgr Manager
}

// InProgress reports whether the sender has an active conversation in this chat.
func (r Router) InProgress(c tele.Context) bool {
	if r.Mgr == nil {
		return false
	}
	ctx := tghelpers.BuildContext(c)
	return r.Mgr.InProgress(ctx, KeyOf(c))
}

// Handle executes the handler registered for the key's current state, if any.
func (r Router) Handle(c tele.Context) error {
	if r.Mgr == nil {
		return nil
	}
	key := KeyOf(c)
	ctx := tghelpers.BuildContext(c)
	current := r.Mgr.State(ctx, key)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", key.UserID),
		slog.Int64("chat_id", key.ChatID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
