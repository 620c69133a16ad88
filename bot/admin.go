package bot

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"kursbot/core/storage"
	"kursbot/core/telegram/helpers"
)

// handleLogin opens an admin window when the password matches.
func (a *App) handleLogin(c tele.Context) error {
	args := strings.Fields(c.Message().Payload)
	if len(args) < 1 {
		return helpers.SendMD(c, textLoginUsage)
	}

	if subtle.ConstantTimeCompare([]byte(args[0]), []byte(a.cfg.Admin.Password)) != 1 {
		return c.Send(textLoginDenied)
	}

	a.sessions.BeginAdmin(c.Sender().ID)
	if err := c.Send(textLoginOK); err != nil {
		return err
	}
	return helpers.SendMD(c, textAdminPanel, adminPanelButtons())
}

func (a *App) handleLogout(c tele.Context) error {
	a.sessions.Clear(c.Sender().ID)
	return c.Send(textLogoutOK)
}

// handleSetRate mutates a currency's buy/sell pair. Requires a live admin
// session; malformed payloads produce the usage message and change nothing.
func (a *App) handleSetRate(c tele.Context) error {
	if !a.sessions.IsAdmin(c.Sender().ID) {
		return c.Send(textNeedLogin)
	}

	args := strings.Fields(c.Message().Payload)
	if len(args) != 3 {
		return helpers.SendMD(c, textSetRateUsage)
	}

	code := strings.ToUpper(args[0])
	buy, errBuy := parsePrice(args[1])
	sell, errSell := parsePrice(args[2])
	if errBuy != nil || errSell != nil {
		return helpers.SendMD(c, textSetRateUsage)
	}

	if err := a.store.SetRate(context.Background(), code, buy, sell); err != nil {
		return err
	}

	return c.Send(fmt.Sprintf(
		"✅ Курс %s оновлено:\nКупівля: %s\nПродаж: %s",
		code, buy.String(), sell.String(),
	))
}

// handleGetRate shows the stored pair for a currency. Available to everyone.
func (a *App) handleGetRate(c tele.Context) error {
	args := strings.Fields(c.Message().Payload)
	if len(args) < 1 {
		return helpers.SendMD(c, textGetRateUsage)
	}

	code := strings.ToUpper(args[0])
	rate, err := a.store.GetRate(context.Background(), code)
	if errors.Is(err, storage.ErrRateNotFound) {
		return c.Send(fmt.Sprintf("❌ Валюту %s не знайдено в базі", code))
	}
	if err != nil {
		if sendErr := c.Send(textGetRateError); sendErr != nil {
			return sendErr
		}
		return err
	}

	return helpers.SendMD(c, fmt.Sprintf(
		"💱 **Курс %s:**\n🔵 Купівля: `%s UAH`\n🔴 Продаж: `%s UAH`",
		rate.Currency, rate.Buy.StringFixed(2), rate.Sell.StringFixed(2),
	))
}

// handleAdminStats shows the global usage counters behind the admin gate.
func (a *App) handleAdminStats(c tele.Context) error {
	if !a.sessions.IsAdmin(c.Sender().ID) {
		return c.Respond(&tele.CallbackResponse{Text: textSessionOver, ShowAlert: true})
	}

	stats, err := a.store.GlobalStats(context.Background())
	if err != nil {
		return err
	}
	if err := c.Send(fmt.Sprintf("📊 Користувачів: %d\nЗапитів: %d", stats.Users, stats.Actions)); err != nil {
		return err
	}
	return c.Respond()
}

// handleAdminEdit shows the rate-mutation command syntax.
func (a *App) handleAdminEdit(c tele.Context) error {
	if !a.sessions.IsAdmin(c.Sender().ID) {
		return c.Respond(&tele.CallbackResponse{Text: textSessionOver, ShowAlert: true})
	}
	if err := helpers.SendMD(c, textSetRateHint); err != nil {
		return err
	}
	return c.Respond()
}
