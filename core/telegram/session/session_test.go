package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestUnknownUserIsIdle(t *testing.T) {
	m := NewManager(10 * time.Minute)

	require.Equal(t, StateIdle, m.State(1))
	require.False(t, m.InProgress(1))
	require.Equal(t, Session{State: StateIdle}, m.Get(1))
}

func TestExchangeFlowTransitions(t *testing.T) {
	m := NewManager(10 * time.Minute)
	buy := decimal.RequireFromString("41.2")
	sell := decimal.RequireFromString("41.8")

	m.SetRateSnapshot(5, "USD", buy, sell)
	require.Equal(t, StateIdle, m.State(5), "currency selection alone does not start amount entry")

	m.SetOperation(5, OpBuy)
	require.Equal(t, StateAwaitingAmount, m.State(5))
	require.True(t, m.InProgress(5))

	sess := m.Get(5)
	require.Equal(t, "USD", sess.Currency)
	require.Equal(t, OpBuy, sess.Op)
	require.True(t, sess.Buy.Equal(buy))
	require.True(t, sess.Sell.Equal(sell))

	m.Clear(5)
	require.Equal(t, StateIdle, m.State(5))
}

func TestSnapshotSurvivesRateChange(t *testing.T) {
	m := NewManager(10 * time.Minute)

	m.SetRateSnapshot(5, "EUR", decimal.RequireFromString("45.0"), decimal.RequireFromString("45.9"))
	m.SetOperation(5, OpSell)

	// A later snapshot for the same user replaces the pair, but only for
	// that user.
	m.SetRateSnapshot(6, "EUR", decimal.RequireFromString("46.0"), decimal.RequireFromString("47.0"))

	sess := m.Get(5)
	require.True(t, sess.Sell.Equal(decimal.RequireFromString("45.9")))
}

func TestBeginAdminReplacesFlow(t *testing.T) {
	m := NewManager(10 * time.Minute)

	m.SetRateSnapshot(9, "USD", decimal.RequireFromString("41.2"), decimal.RequireFromString("41.8"))
	m.SetOperation(9, OpBuy)
	m.BeginAdmin(9)

	require.True(t, m.IsAdmin(9))
	require.Empty(t, m.Get(9).Currency, "admin login discards the exchange flow")
}

func TestAdminWindowExpires(t *testing.T) {
	m := NewManager(10 * time.Minute)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return now })

	m.BeginAdmin(3)
	require.True(t, m.IsAdmin(3))

	now = now.Add(9 * time.Minute)
	require.True(t, m.IsAdmin(3), "still inside the window")

	now = now.Add(2 * time.Minute)
	require.False(t, m.IsAdmin(3))
	require.Equal(t, StateIdle, m.State(3), "expired admin degrades to idle")
}
