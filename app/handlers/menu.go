package handlers

import (
	"fmt"
	"time"

	"github.com/ishulazy/Venomm/core/telegram/format"
	tghelpers "github.com/ishulazy/Venomm/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Main menu labels, in keyboard order.
const (
	LabelInstant     = "Instant Plan 🧡"
	LabelInstantPlus = "Instant++ Plan 💥"
	LabelCanary      = "Canary Download✔️"
	LabelAccount     = "My Account🏦"
	LabelHelp        = "Help❓"
	LabelContact     = "Contact admin✔️"
)

const canaryLink = "https://t.me/SOULCRACKS/10599"

// MenuLabels returns the menu entries in display order.
func MenuLabels() []string {
	return []string{
		LabelInstant,
		LabelInstantPlus,
		LabelCanary,
		LabelAccount,
		LabelHelp,
		LabelContact,
	}
}

// ValidateMenu rejects duplicate or empty labels at startup so a broken
// keyboard never reaches users.
func ValidateMenu() error {
	seen := make(map[string]struct{})
	for _, label := range MenuLabels() {
		if label == "" {
			return fmt.Errorf("handlers: empty menu label")
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("handlers: duplicate menu label %q", label)
		}
		seen[label] = struct{}{}
	}
	return nil
}

// MenuText handles free-form text: known menu labels get their reply,
// anything else falls through to the invalid-option default.
func (h *Handlers) MenuText(c tele.Context) error {
	switch c.Text() {
	case LabelInstant:
		return tghelpers.SendMD(c, "*Instant Plan selected*")
	case LabelInstantPlus:
		// The button doubles as a shortcut into the gated flow.
		if err := tghelpers.SendMD(c, "*Instant++ Plan selected*"); err != nil {
			return err
		}
		return h.Attack(c)
	case LabelCanary:
		return tghelpers.SendMD(c, "*Please use the following link for Canary Download: "+canaryLink+"*")
	case LabelAccount:
		return h.accountInfo(c)
	case LabelHelp:
		return tghelpers.SendMD(c, "*Help selected*")
	case LabelContact:
		return tghelpers.SendMD(c, "*Contact admin selected*")
	default:
		return tghelpers.SendMD(c, "*Invalid option*")
	}
}

func (h *Handlers) accountInfo(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	sub, err := h.Subs.Account(ctx, user.ID)
	if err != nil {
		return tghelpers.SendMD(c, "*An error occurred. Please try again later.*")
	}
	if sub == nil {
		return tghelpers.SendMD(c, "*No account information found. Please contact the administrator.*")
	}

	info := fmt.Sprintf("*USERNAME: %s\nPlan: %d\nValid Until: %s\nCurrent Time: %s*",
		format.EscapeMD(user.Username),
		sub.Plan,
		sub.ValidUntil,
		time.Now().Format("2006-01-02T15:04:05"),
	)
	return tghelpers.SendMD(c, info)
}
