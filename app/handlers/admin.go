package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ishulazy/Venomm/app/services/subscriptions"
	tghelpers "github.com/ishulazy/Venomm/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const adminUsage = "*Invalid command format. Use /approve <user_id> <plan> <days> or /disapprove <user_id>.*"

// NotAuthorized replies to non-admins who invoke privileged commands.
func (h *Handlers) NotAuthorized(c tele.Context) error {
	return tghelpers.SendMD(c, "*You are not authorized to use this command*")
}

// Approve grants a plan: /approve <user_id> [plan] [days].
// Plan and days default to zero, so a bare approve grants the free tier
// through today.
func (h *Handlers) Approve(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 || len(args) > 3 {
		return tghelpers.SendMD(c, adminUsage)
	}

	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return tghelpers.SendMD(c, adminUsage)
	}
	planNum, days := 0, 0
	if len(args) >= 2 {
		if planNum, err = strconv.Atoi(args[1]); err != nil {
			return tghelpers.SendMD(c, adminUsage)
		}
	}
	if len(args) == 3 {
		if days, err = strconv.Atoi(args[2]); err != nil || days < 0 {
			return tghelpers.SendMD(c, adminUsage)
		}
	}
	plan := subscriptions.Plan(planNum)
	if !plan.Valid() {
		return tghelpers.SendMD(c, adminUsage)
	}

	ctx := tghelpers.BuildContext(c)
	if _, err := h.Subs.Approve(ctx, targetID, plan, days); err != nil {
		var capErr *subscriptions.CapacityError
		if errors.As(err, &capErr) {
			_ = tghelpers.SendMD(c, "*"+capErr.UserMessage()+"*")
			return err
		}
		_ = tghelpers.SendMD(c, "*An error occurred. Please try again later.*")
		return err
	}

	outcome := fmt.Sprintf("*User %d approved with plan %d for %d days.*", targetID, plan, days)
	h.Notify.Broadcast(ctx, outcome)
	return tghelpers.SendMD(c, outcome)
}

// Disapprove reverts a user to free: /disapprove <user_id>.
// Revoking an unapproved user succeeds, so retries are harmless.
func (h *Handlers) Disapprove(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return tghelpers.SendMD(c, adminUsage)
	}
	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return tghelpers.SendMD(c, adminUsage)
	}

	ctx := tghelpers.BuildContext(c)
	if err := h.Subs.Disapprove(ctx, targetID); err != nil {
		_ = tghelpers.SendMD(c, "*An error occurred. Please try again later.*")
		return err
	}

	outcome := fmt.Sprintf("*User %d disapproved and reverted to free.*", targetID)
	h.Notify.Broadcast(ctx, outcome)
	return tghelpers.SendMD(c, outcome)
}
