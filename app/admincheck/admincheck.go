package admincheck

import (
	"context"
	"fmt"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

// Checker resolves admin privileges through membership of a control chat.
// The bot handle arrives after startup, so it is bound late and checks made
// before Bind report non-admin.
type Checker struct {
	controlChatID int64
	bot           atomic.Pointer[tele.Bot]
}

// New creates a Checker for the given control chat.
func New(controlChatID int64) *Checker {
	return &Checker{controlChatID: controlChatID}
}

// Bind attaches the running bot. Safe to call from the start hook.
func (c *Checker) Bind(bot *tele.Bot) {
	c.bot.Store(bot)
}

// IsAdmin reports whether the user is an administrator or the creator of the
// control chat. Callers must treat any error as "not an admin".
func (c *Checker) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	bot := c.bot.Load()
	if bot == nil {
		return false, fmt.Errorf("admincheck: bot not bound yet")
	}
	if c.controlChatID == 0 {
		return false, fmt.Errorf("admincheck: control chat not configured")
	}

	member, err := bot.ChatMemberOf(&tele.Chat{ID: c.controlChatID}, &tele.User{ID: userID})
	if err != nil {
		return false, fmt.Errorf("admincheck: member lookup: %w", err)
	}
	switch member.Role {
	case tele.Administrator, tele.Creator:
		return true, nil
	}
	return false, nil
}
