package router

import (
	"time"

	tg "github.com/ishulazy/Venomm/core/telegram"
	"github.com/ishulazy/Venomm/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for a conversation state router.
type FSM interface {
	InProgress(c tele.Context) bool
	Handle(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for free-form text routing.
// Active conversations win over the text fallback. Commands never route
// through here: they are dispatched on their own endpoints with the full
// middleware chain, so the text path cannot reach a bare handler.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()

		if fsmMgr != nil && fsmMgr.InProgress(c) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.Handle(c)
			})
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
