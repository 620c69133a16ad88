package bot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
	_ "modernc.org/sqlite"

	coreconfig "kursbot/core/config"
	"kursbot/core/storage"
	"kursbot/core/telegram/session"
)

// fakeContext records outbound traffic instead of hitting the Telegram API.
// The embedded nil Context panics on anything a handler should not touch.
type fakeContext struct {
	tele.Context

	sender   *tele.User
	text     string
	message  *tele.Message
	callback *tele.Callback

	sent      []string
	edited    []string
	responses []*tele.CallbackResponse
}

func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Text() string             { return f.text }
func (f *fakeContext) Message() *tele.Message   { return f.message }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.edited = append(f.edited, s)
	}
	return nil
}

func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	f.responses = append(f.responses, resp...)
	return nil
}

func (f *fakeContext) lastSent(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent, "expected at least one outbound message")
	return f.sent[len(f.sent)-1]
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "migrations", "0001_init.up.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	cfg := &coreconfig.Config{}
	cfg.Admin.Password = "s3cret"
	cfg.Admin.SessionTTLMinutes = 10
	cfg.AntiSpam.SoftIntervalMS = 1200
	cfg.AntiSpam.HardIntervalMS = 500

	return New(cfg, storage.New(db))
}

func messageCtx(userID int64, text, payload string) *fakeContext {
	return &fakeContext{
		sender:  &tele.User{ID: userID},
		text:    text,
		message: &tele.Message{Text: text, Payload: payload},
	}
}

func callbackCtx(userID int64, unique, data string) *fakeContext {
	return &fakeContext{
		sender:   &tele.User{ID: userID},
		callback: &tele.Callback{Unique: unique, Data: data},
	}
}

func TestStartShowsMenuAndResetsSession(t *testing.T) {
	app := newTestApp(t)
	const userID int64 = 99

	app.sessions.SetOperation(userID, session.OpBuy)

	mc := messageCtx(userID, "/start", "")
	require.NoError(t, app.handleStart(mc))
	require.Contains(t, mc.lastSent(t), "Вітаємо")
	require.Equal(t, session.StateIdle, app.sessions.State(userID))

	rc := messageCtx(userID, "💱 Курс валют", "")
	require.NoError(t, app.handleRatesMenu(rc))
	require.Equal(t, textChooseCurrency, rc.lastSent(t))
}

func TestExchangeFlowEndToEnd(t *testing.T) {
	app := newTestApp(t)
	const userID int64 = 100

	buy, sell := decimalFromString(t, "41.0"), decimalFromString(t, "41.6")
	require.NoError(t, app.store.SetRate(context.Background(), "USD", buy, sell))

	// Currency button: rate card plus snapshot, state stays idle.
	cc := callbackCtx(userID, cbCurrency, "USD")
	require.NoError(t, app.handleCurrencySelect(cc))
	require.Contains(t, cc.lastSent(t), "Курс USD")
	require.Contains(t, cc.lastSent(t), "41.00")
	require.Equal(t, session.StateIdle, app.sessions.State(userID))

	// Confirm calculation, pick buy: now awaiting an amount.
	require.NoError(t, app.handleCalcConfirm(callbackCtx(userID, cbCalcConfirm, "")))
	oc := callbackCtx(userID, cbOperation, "buy")
	require.NoError(t, app.handleOperationSelect(oc))
	require.Equal(t, session.StateAwaitingAmount, app.sessions.State(userID))
	require.Contains(t, oc.edited[0], "Введіть суму в **USD**")

	// Invalid amount re-prompts without leaving the state.
	bad := messageCtx(userID, "abc", "")
	require.NoError(t, app.handleConvert(bad))
	require.Equal(t, textAmountNotNum, bad.lastSent(t))
	require.Equal(t, session.StateAwaitingAmount, app.sessions.State(userID))

	// A valid amount converts at the snapshotted buy rate and resets.
	mc := messageCtx(userID, "100", "")
	require.NoError(t, app.handleConvert(mc))
	require.Contains(t, mc.lastSent(t), "100 USD = **4100.00 UAH**")
	require.Contains(t, mc.lastSent(t), "Купівля")
	require.Equal(t, session.StateIdle, app.sessions.State(userID))

	stats, err := app.store.GlobalStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Users)
	require.EqualValues(t, 2, stats.Actions, "view_rate and convert_buy")
}

func TestConversionUsesSnapshotNotCurrentRate(t *testing.T) {
	app := newTestApp(t)
	const userID int64 = 101
	ctx := context.Background()

	require.NoError(t, app.store.SetRate(ctx, "EUR", decimalFromString(t, "45.0"), decimalFromString(t, "46.0")))
	require.NoError(t, app.handleCurrencySelect(callbackCtx(userID, cbCurrency, "EUR")))

	// Admin changes the rate mid-conversation.
	require.NoError(t, app.store.SetRate(ctx, "EUR", decimalFromString(t, "50.0"), decimalFromString(t, "51.0")))

	require.NoError(t, app.handleOperationSelect(callbackCtx(userID, cbOperation, "sell")))
	mc := messageCtx(userID, "10", "")
	require.NoError(t, app.handleConvert(mc))
	require.Contains(t, mc.lastSent(t), "10 EUR = **460.00 UAH**")
}

func TestCurrencySelectUnsetRate(t *testing.T) {
	app := newTestApp(t)

	cc := callbackCtx(1, cbCurrency, "CHF")
	require.NoError(t, app.handleCurrencySelect(cc))
	require.Empty(t, cc.sent)
	require.Len(t, cc.responses, 1)
	require.Equal(t, textRateNotSet, cc.responses[0].Text)
	require.True(t, cc.responses[0].ShowAlert)
}

func TestCalcCancelResetsSession(t *testing.T) {
	app := newTestApp(t)
	const userID int64 = 102

	require.NoError(t, app.store.SetRate(context.Background(), "USD", decimalFromString(t, "41.0"), decimalFromString(t, "41.6")))
	require.NoError(t, app.handleCurrencySelect(callbackCtx(userID, cbCurrency, "USD")))
	require.NoError(t, app.handleOperationSelect(callbackCtx(userID, cbOperation, "buy")))
	require.Equal(t, session.StateAwaitingAmount, app.sessions.State(userID))

	cc := callbackCtx(userID, cbCalcCancel, "")
	require.NoError(t, app.handleCalcCancel(cc))
	require.Equal(t, textCancelled, cc.edited[0])
	require.Equal(t, session.StateIdle, app.sessions.State(userID))
}

func TestOperationSelectWithoutSnapshotCancels(t *testing.T) {
	app := newTestApp(t)

	oc := callbackCtx(103, cbOperation, "buy")
	require.NoError(t, app.handleOperationSelect(oc))
	require.Equal(t, textCancelled, oc.edited[0])
	require.Equal(t, session.StateIdle, app.sessions.State(103))
}

func TestSetRateRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	const userID int64 = 200
	ctx := context.Background()

	sc := messageCtx(userID, "/setrate USD 41.2 41.8", "USD 41.2 41.8")
	require.NoError(t, app.handleSetRate(sc))
	require.Equal(t, textNeedLogin, sc.lastSent(t))

	_, err := app.store.GetRate(ctx, "USD")
	require.ErrorIs(t, err, storage.ErrRateNotFound, "rate must not change without login")

	// Wrong password does not open the window either.
	lc := messageCtx(userID, "/login nope", "nope")
	require.NoError(t, app.handleLogin(lc))
	require.Equal(t, textLoginDenied, lc.lastSent(t))
	require.False(t, app.sessions.IsAdmin(userID))

	lc = messageCtx(userID, "/login s3cret", "s3cret")
	require.NoError(t, app.handleLogin(lc))
	require.True(t, app.sessions.IsAdmin(userID))

	sc = messageCtx(userID, "/setrate USD 41.2 41.8", "USD 41.2 41.8")
	require.NoError(t, app.handleSetRate(sc))
	require.Contains(t, sc.lastSent(t), "Курс USD оновлено")

	rate, err := app.store.GetRate(ctx, "usd")
	require.NoError(t, err)
	require.True(t, rate.Buy.Equal(decimalFromString(t, "41.2")))
	require.True(t, rate.Sell.Equal(decimalFromString(t, "41.8")))
}

func TestSetRateMalformedPayload(t *testing.T) {
	app := newTestApp(t)
	const userID int64 = 201

	app.sessions.BeginAdmin(userID)

	for _, payload := range []string{"", "USD 41.2", "USD abc 41.8", "USD 41.2 -1"} {
		sc := messageCtx(userID, "/setrate "+payload, payload)
		require.NoError(t, app.handleSetRate(sc))
		require.Equal(t, textSetRateUsage, sc.lastSent(t), "payload %q", payload)
	}

	_, err := app.store.GetRate(context.Background(), "USD")
	require.ErrorIs(t, err, storage.ErrRateNotFound)
}

func TestLogoutClosesAdminWindow(t *testing.T) {
	app := newTestApp(t)
	const userID int64 = 202

	app.sessions.BeginAdmin(userID)
	lc := messageCtx(userID, "/logout", "")
	require.NoError(t, app.handleLogout(lc))
	require.Equal(t, textLogoutOK, lc.lastSent(t))
	require.False(t, app.sessions.IsAdmin(userID))
}

func TestGetRateIsPublic(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.SetRate(context.Background(), "USD", decimalFromString(t, "41.0"), decimalFromString(t, "41.6")))

	gc := messageCtx(300, "/getrate usd", "usd")
	require.NoError(t, app.handleGetRate(gc))
	require.Contains(t, gc.lastSent(t), "Курс USD")

	gc = messageCtx(300, "/getrate CHF", "CHF")
	require.NoError(t, app.handleGetRate(gc))
	require.Contains(t, gc.lastSent(t), "не знайдено")
}

func TestAdminCallbacksGateExpiredSessions(t *testing.T) {
	app := newTestApp(t)

	for _, unique := range []string{cbAdminStats, cbAdminEdit} {
		cc := callbackCtx(400, unique, "")
		var err error
		if unique == cbAdminStats {
			err = app.handleAdminStats(cc)
		} else {
			err = app.handleAdminEdit(cc)
		}
		require.NoError(t, err)
		require.Empty(t, cc.sent)
		require.Len(t, cc.responses, 1)
		require.Equal(t, textSessionOver, cc.responses[0].Text)
		require.True(t, cc.responses[0].ShowAlert)
	}
}

func TestAdminStats(t *testing.T) {
	app := newTestApp(t)
	const adminID int64 = 401

	require.NoError(t, app.store.LogAction(context.Background(), 1, "view_rate", "USD"))
	require.NoError(t, app.store.LogAction(context.Background(), 2, "convert_buy", "USD"))

	app.sessions.BeginAdmin(adminID)
	cc := callbackCtx(adminID, cbAdminStats, "")
	require.NoError(t, app.handleAdminStats(cc))
	require.Contains(t, cc.lastSent(t), "Користувачів: 2")
	require.Contains(t, cc.lastSent(t), "Запитів: 2")
}
