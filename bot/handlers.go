package bot

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"kursbot/core/storage"
	"kursbot/core/telegram"
	"kursbot/core/telegram/helpers"
	"kursbot/core/telegram/session"
)

// handleStart resets the session and shows the main menu.
func (a *App) handleStart(c tele.Context) error {
	a.sessions.Clear(c.Sender().ID)
	return helpers.SendMD(c, textWelcome, mainMenu())
}

func (a *App) handleRatesMenu(c tele.Context) error {
	return c.Send(textChooseCurrency, currencyButtons())
}

func (a *App) handleHelp(c tele.Context) error {
	return helpers.SendMD(c, textHelp)
}

func (a *App) handleContacts(c tele.Context) error {
	return helpers.SendMD(c, textContacts)
}

func (a *App) handleSupport(c tele.Context) error {
	return c.Send(textSupport)
}

// handleCurrencySelect snapshots the chosen currency's rate into the session
// and offers the calculation prompt. The snapshot stays fixed for the session
// even if an admin updates the rate meanwhile.
func (a *App) handleCurrencySelect(c tele.Context) error {
	userID := c.Sender().ID
	code := telegram.CallbackPayload(c)

	rate, err := a.store.GetRate(context.Background(), code)
	if errors.Is(err, storage.ErrRateNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: textRateNotSet, ShowAlert: true})
	}
	if err != nil {
		return err
	}

	a.sessions.SetRateSnapshot(userID, rate.Currency, rate.Buy, rate.Sell)

	text := fmt.Sprintf(
		"📊 **Курс %s:**\nКупівля: `%s UAH`\nПродаж: `%s UAH`\n\nБажаєте розрахувати конкретну суму?",
		rate.Currency, rate.Buy.StringFixed(2), rate.Sell.StringFixed(2),
	)
	if err := helpers.SendMD(c, text, calculationChoiceButtons()); err != nil {
		return err
	}
	if err := c.Respond(); err != nil {
		return err
	}
	a.logAction(userID, "view_rate", code)
	return nil
}

func (a *App) handleCalcConfirm(c tele.Context) error {
	if err := c.Edit(textChooseOp, operationTypeButtons()); err != nil {
		return err
	}
	return c.Respond()
}

func (a *App) handleCalcCancel(c tele.Context) error {
	a.sessions.Clear(c.Sender().ID)
	if err := c.Edit(textCancelled); err != nil {
		return err
	}
	return c.Respond()
}

// handleOperationSelect records buy/sell and moves the user to amount entry.
func (a *App) handleOperationSelect(c tele.Context) error {
	userID := c.Sender().ID

	sess := a.sessions.Get(userID)
	if sess.Currency == "" {
		// Snapshot lost (e.g. process restart between button presses).
		a.sessions.Clear(userID)
		if err := c.Edit(textCancelled); err != nil {
			return err
		}
		return c.Respond()
	}

	op := session.OpSell
	verb := "продати"
	if telegram.CallbackPayload(c) == "buy" {
		op = session.OpBuy
		verb = "купити"
	}
	a.sessions.SetOperation(userID, op)

	text := fmt.Sprintf("💰 Введіть суму в **%s**, яку ви хочете %s:", sess.Currency, verb)
	if err := helpers.EditMD(c, text); err != nil {
		return err
	}
	return c.Respond()
}

// handleConvert consumes the amount while in awaiting_amount state. Invalid
// input re-prompts without advancing the state; a valid amount produces the
// result, clears the session, and logs the conversion.
func (a *App) handleConvert(c tele.Context) error {
	userID := c.Sender().ID

	amount, err := parseAmount(c.Text())
	switch {
	case errors.Is(err, errAmountTooLong):
		return c.Send(textAmountTooLong)
	case errors.Is(err, errAmountNotPositive):
		return c.Send(textAmountNotPos)
	case err != nil:
		return c.Send(textAmountNotNum)
	}

	sess := a.sessions.Get(userID)
	rate := sess.Sell
	opName := "Продаж"
	action := "convert_sell"
	if sess.Op == session.OpBuy {
		rate = sess.Buy
		opName = "Купівля"
		action = "convert_buy"
	}

	result := amount.Mul(rate)
	text := fmt.Sprintf(
		"✅ **Результат (%s):**\n%s %s = **%s UAH**\n\n_За курсом %s_",
		opName, amount.String(), sess.Currency, result.StringFixed(2), rate.StringFixed(2),
	)
	if err := helpers.SendMD(c, text); err != nil {
		return err
	}

	a.sessions.Clear(userID)
	a.logAction(userID, action, sess.Currency)
	return nil
}
