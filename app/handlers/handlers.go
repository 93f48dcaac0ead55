package handlers

import (
	"github.com/ishulazy/Venomm/app/admincheck"
	"github.com/ishulazy/Venomm/app/notify"
	"github.com/ishulazy/Venomm/app/services/attack"
	"github.com/ishulazy/Venomm/app/services/subscriptions"
	"github.com/ishulazy/Venomm/core/telegram/state"
)

// Handlers bundles the dependencies shared by all bot handlers.
type Handlers struct {
	Subs     *subscriptions.Service
	Launcher attack.Launcher
	Sessions state.Manager
	Admin    *admincheck.Checker
	Notify   *notify.Notifier
}

// New wires the handler set and registers conversation follow-ups.
func New(subs *subscriptions.Service, launcher attack.Launcher, sessions state.Manager, admin *admincheck.Checker, notifier *notify.Notifier) *Handlers {
	h := &Handlers{
		Subs:     subs,
		Launcher: launcher,
		Sessions: sessions,
		Admin:    admin,
		Notify:   notifier,
	}
	state.RegisterHandler(StateAwaitingAttackParams, h.AttackParams)
	return h
}
