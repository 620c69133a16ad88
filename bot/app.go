// Package bot wires the exchange-rate conversation flows on top of the core
// telegram runtime and the rate store.
package bot

import (
	"context"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "kursbot/core/config"
	"kursbot/core/logger"
	"kursbot/core/storage"
	"kursbot/core/telegram"
	"kursbot/core/telegram/middleware"
	"kursbot/core/telegram/session"
)

// App holds the bot's dependencies and exposes its dispatch tables.
type App struct {
	cfg      *coreconfig.Config
	store    *storage.Store
	sessions *session.Manager
}

// New builds the application around an open rate store.
func New(cfg *coreconfig.Config, store *storage.Store) *App {
	return &App{
		cfg:      cfg,
		store:    store,
		sessions: session.NewManager(time.Duration(cfg.Admin.SessionTTLMinutes) * time.Minute),
	}
}

// Sessions exposes the conversation state machine.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Registry returns the command, callback, and menu dispatch tables.
func (a *App) Registry() *telegram.Registry {
	reg := telegram.NewRegistry()

	reg.RegisterCommand("/start", telegram.Command{Handler: a.handleStart, Description: "Головне меню"})
	reg.RegisterCommand("/getrate", telegram.Command{Handler: a.handleGetRate, Description: "Курс валюти"})
	reg.RegisterCommand("/login", telegram.Command{Handler: a.handleLogin, Description: "Адмін-вхід", Hidden: true})
	reg.RegisterCommand("/logout", telegram.Command{Handler: a.handleLogout, Description: "Адмін-вихід", Hidden: true})
	reg.RegisterCommand("/setrate", telegram.Command{Handler: a.handleSetRate, Description: "Оновити курс", Hidden: true})

	reg.RegisterMenu(menuRates, a.handleRatesMenu)
	reg.RegisterMenu(menuHelp, a.handleHelp)
	reg.RegisterMenu(menuContacts, a.handleContacts)
	reg.RegisterMenu(menuSupport, a.handleSupport)
	reg.RegisterMenu(menuMenu, a.handleStart)

	reg.RegisterCallback(cbCurrency, a.handleCurrencySelect)
	reg.RegisterCallback(cbCalcConfirm, a.handleCalcConfirm)
	reg.RegisterCallback(cbCalcCancel, a.handleCalcCancel)
	reg.RegisterCallback(cbOperation, a.handleOperationSelect)
	reg.RegisterCallback(cbAdminStats, a.handleAdminStats)
	reg.RegisterCallback(cbAdminEdit, a.handleAdminEdit)

	return reg
}

// StateHandlers maps non-idle states to their free-text handlers.
func (a *App) StateHandlers() map[session.State]tele.HandlerFunc {
	return map[session.State]tele.HandlerFunc{
		session.StateAwaitingAmount: a.handleConvert,
	}
}

// Middlewares builds the global middleware chain: fault barrier, anti-spam
// gate, receipt logging.
func (a *App) Middlewares() []tele.MiddlewareFunc {
	gate := middleware.NewGate(
		time.Duration(a.cfg.AntiSpam.SoftIntervalMS)*time.Millisecond,
		time.Duration(a.cfg.AntiSpam.HardIntervalMS)*time.Millisecond,
	)
	return []tele.MiddlewareFunc{
		middleware.RecoverMiddleware(middleware.RecoverOptions{Apology: textApology}),
		middleware.AntiSpamMiddleware(middleware.AntiSpamOptions{
			Gate: gate,
			OnThrottled: func(c tele.Context) error {
				return c.Send(textThrottled)
			},
		}),
		middleware.LoggerMiddleware,
	}
}

// RouterOptions returns the options shared by all routes.
func (a *App) RouterOptions() telegram.RouterOptions {
	return telegram.RouterOptions{
		Sessions:      a.sessions,
		StateHandlers: a.StateHandlers(),
		Apology:       textApology,
	}
}

// logAction records a user action in the store. Failures are logged and
// swallowed: usage accounting must never break a user-facing flow.
func (a *App) logAction(userID int64, action, currency string) {
	if err := a.store.LogAction(context.Background(), userID, action, currency); err != nil {
		logger.Store.Error("action log failed",
			slog.String("event", "storage.log_action"),
			slog.Int64("user_id", userID),
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
	}
}
