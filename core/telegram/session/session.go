// Package session tracks per-user conversation state for the exchange flow.
// State is memory-resident by design: a process restart drops all sessions.
package session

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingAmount means the user chose an operation and the bot
	// waits for a numeric amount.
	StateAwaitingAmount State = "awaiting_amount"
	// StateAdminActive marks an authenticated admin window.
	StateAdminActive State = "admin_active"
)

// Operation is the direction of an exchange calculation.
type Operation string

const (
	OpBuy  Operation = "buy"
	OpSell Operation = "sell"
)

// Session stores the in-progress flow data for one user. The rate snapshot is
// taken at currency selection time and stays fixed for the session even if an
// admin updates the stored rate concurrently.
type Session struct {
	State      State
	Currency   string
	Buy        decimal.Decimal
	Sell       decimal.Decimal
	Op         Operation
	AdminUntil time.Time
}

// Manager owns the session map and orchestrates state transitions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	adminTTL time.Duration
	now      func() time.Time
}

// NewManager constructs an in-memory session manager. adminTTL bounds how long
// an admin login stays valid.
func NewManager(adminTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		adminTTL: adminTTL,
		now:      time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Get returns a copy of the user's session, or an idle one if none exists.
func (m *Manager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return *sess
	}
	return Session{State: StateIdle}
}

// State returns the current FSM state of a user. An expired admin window
// degrades to idle.
func (m *Manager) State(userID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return StateIdle
	}
	if sess.State == StateAdminActive && m.now().After(sess.AdminUntil) {
		delete(m.sessions, userID)
		return StateIdle
	}
	return sess.State
}

// InProgress reports whether the user has an active non-idle state.
func (m *Manager) InProgress(userID int64) bool {
	return m.State(userID) != StateIdle
}

// Clear removes the user's session entirely.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// SetRateSnapshot records the chosen currency with its buy/sell pair. The
// state stays as it was: selecting a currency does not start amount entry yet.
func (m *Manager) SetRateSnapshot(userID int64, currency string, buy, sell decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.ensure(userID)
	sess.Currency = currency
	sess.Buy = buy
	sess.Sell = sell
}

// SetOperation records the chosen operation and moves the user to amount entry.
func (m *Manager) SetOperation(userID int64, op Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.ensure(userID)
	sess.Op = op
	sess.State = StateAwaitingAmount
}

// BeginAdmin opens an authenticated admin window, replacing any in-progress
// exchange flow.
func (m *Manager) BeginAdmin(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &Session{
		State:      StateAdminActive,
		AdminUntil: m.now().Add(m.adminTTL),
	}
}

// IsAdmin reports whether the user holds a live admin session.
func (m *Manager) IsAdmin(userID int64) bool {
	return m.State(userID) == StateAdminActive
}

func (m *Manager) ensure(userID int64) *Session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle}
		m.sessions[userID] = sess
	}
	return sess
}
