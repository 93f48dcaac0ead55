package handlers

import (
	"fmt"

	"github.com/ishulazy/Venomm/app/services/attack"
	"github.com/ishulazy/Venomm/core/logger"
	"github.com/ishulazy/Venomm/core/telegram/format"
	tghelpers "github.com/ishulazy/Venomm/core/telegram/helpers"
	"github.com/ishulazy/Venomm/core/telegram/state"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// StateAwaitingAttackParams marks a user who was prompted for run parameters.
const StateAwaitingAttackParams state.State = "awaiting_attack_params"

// Attack gates the run command behind the subscription policy and, when
// allowed, opens a conversation asking for parameters.
func (h *Handlers) Attack(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	if denial := h.Subs.Authorize(ctx, user.ID); denial != nil {
		_ = tghelpers.SendMD(c, "*"+denial.Message+"*")
		return denial
	}

	key := state.KeyOf(c)
	if err := h.Sessions.Set(ctx, key, StateAwaitingAttackParams); err != nil {
		_ = tghelpers.SendMD(c, "*An error occurred. Please try again later.*")
		return err
	}
	return tghelpers.SendMD(c, "*Enter the target IP, port, and duration (in seconds) separated by spaces.*")
}

// AttackParams consumes the follow-up message carrying "host port duration".
// The session is claimed atomically up front, so the conversation ends on
// every exit path and a concurrent duplicate message is dropped.
func (h *Handlers) AttackParams(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	key := state.KeyOf(c)

	if !h.Sessions.CompareAndSwap(ctx, key, StateAwaitingAttackParams, state.StateIdle) {
		// Lost the claim: another delivery of this follow-up won.
		return nil
	}

	params, perr := attack.ParseParams(c.Text())
	if perr != nil {
		_ = tghelpers.SendMD(c, "*"+perr.Message+"*")
		return perr
	}

	if err := h.Launcher.Launch(ctx, user.ID, params); err != nil {
		logger.Error(ctx, "service.attack", "launch.fail",
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendMD(c, "*An error occurred while processing your request.*")
	}

	reply := fmt.Sprintf("*Attack started 💥*\n\nHost: %s\nPort: %d\nTime: %d",
		format.EscapeMD(params.Host), params.Port, params.Duration)
	return tghelpers.SendMD(c, reply)
}
