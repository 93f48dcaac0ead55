package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ishulazy/Venomm/app/admincheck"
	"github.com/ishulazy/Venomm/app/handlers"
	"github.com/ishulazy/Venomm/app/notify"
	"github.com/ishulazy/Venomm/app/services/attack"
	"github.com/ishulazy/Venomm/app/services/subscriptions"
	corebootstrap "github.com/ishulazy/Venomm/core/bootstrap"
	coretelegram "github.com/ishulazy/Venomm/core/telegram"
	"github.com/ishulazy/Venomm/core/telegram/commands"
	"github.com/ishulazy/Venomm/core/telegram/router"
	"github.com/ishulazy/Venomm/core/telegram/state"
)

// App holds the composed bot: storage, services, sessions, and handlers.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	sessions state.Manager
	checker  *admincheck.Checker
	notifier *notify.Notifier
	handlers *handlers.Handlers
}

// Bootstrap initializes infrastructure and wires the handler set.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	if err := handlers.ValidateMenu(); err != nil {
		return nil, err
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	sessions, err := buildSessions(cfg.Session)
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}

	store := subscriptions.NewPostgresStore(res.DB)
	subsSvc := subscriptions.NewService(store, subscriptions.Limits{
		Instant:     cfg.Limits.Instant,
		InstantPlus: cfg.Limits.InstantPlus,
	})

	checker := admincheck.New(cfg.Core.Telegram.ControlChatID)
	notifier := notify.New(cfg.Core.Telegram.NotifyChannelID)

	return &App{
		cfg:      cfg,
		db:       res.DB,
		sessions: sessions,
		checker:  checker,
		notifier: notifier,
		handlers: handlers.New(subsSvc, attack.LogLauncher{}, sessions, checker, notifier),
	}, nil
}

func buildSessions(cfg SessionConfig) (state.Manager, error) {
	switch cfg.Backend {
	case "redis":
		return state.NewRedisManager(state.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      time.Duration(cfg.TTLSeconds) * time.Second,
			Prefix:   cfg.Prefix,
		})
	default:
		return state.NewMemoryManager(), nil
	}
}

// TelegramRunOptions assembles registry, routes, and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	h := a.handlers

	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Show the main menu",
	})
	reg.RegisterCommand("/attack", commands.Command{
		Handler:     h.Attack,
		Description: "Start a run against a target",
	})
	reg.RegisterCommand("/approve", commands.Command{
		Handler:     h.Approve,
		Description: "Grant a plan to a user",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/disapprove", commands.Command{
		Handler:     h.Disapprove,
		Description: "Revert a user to free",
		AdminOnly:   true,
	})
	reg.SetTextFallback(h.MenuText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminCheck:    a.checker.IsAdmin,
		OnAdminReject: h.NotAuthorized,
	})
	fsm := state.Router{Mgr: a.sessions}
	routes = append(routes, router.TextRoutes(fsm, reg, router.TextOptions{})...)

	opts := coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.checker.Bind(rt.Bot)
			a.notifier.Bind(rt.Bot, rt.Dispatcher)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			var firstErr error
			if err := a.sessions.Close(); err != nil {
				firstErr = err
			}
			if err := a.db.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			return firstErr
		},
	}
	return opts, nil
}
