package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ErrRateNotFound reports that a currency has no stored rate yet. It is a
// normal outcome, not a failure.
var ErrRateNotFound = errors.New("rate not found")

// Store provides access to rates, users, and the action log.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// SetRate upserts the buy/sell pair for a currency. The code is uppercased
// before write so lookups stay case-insensitive.
func (s *Store) SetRate(ctx context.Context, currency string, buy, sell decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rates (currency, buy, sell)
		VALUES (?, ?, ?)
		ON CONFLICT(currency) DO UPDATE SET buy = excluded.buy, sell = excluded.sell`,
		normalizeCode(currency), buy, sell,
	)
	if err != nil {
		return fmt.Errorf("set rate: %w", err)
	}
	return nil
}

// GetRate returns the stored rate for a currency, matching case-insensitively.
// Returns ErrRateNotFound when the currency has never been set.
func (s *Store) GetRate(ctx context.Context, currency string) (Rate, error) {
	var rate Rate
	err := s.db.GetContext(ctx, &rate,
		`SELECT currency, buy, sell FROM rates WHERE currency = ?`,
		normalizeCode(currency),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Rate{}, ErrRateNotFound
	}
	if err != nil {
		return Rate{}, fmt.Errorf("get rate: %w", err)
	}
	return rate, nil
}

// LogAction appends a log row, ensures the user row exists, and increments the
// user's request counter. Currency may be empty and is stored as NULL.
func (s *Store) LogAction(ctx context.Context, userID int64, action, currency string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("log action: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	curr := sql.NullString{String: normalizeCode(currency), Valid: currency != ""}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO logs (user_id, action, currency) VALUES (?, ?, ?)`,
		userID, action, curr,
	); err != nil {
		return fmt.Errorf("log action: insert log: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`,
		userID,
	); err != nil {
		return fmt.Errorf("log action: upsert user: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET requests = requests + 1 WHERE user_id = ?`,
		userID,
	); err != nil {
		return fmt.Errorf("log action: bump counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("log action: commit: %w", err)
	}
	return nil
}

// GlobalStats returns total user and logged action counts.
func (s *Store) GlobalStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.GetContext(ctx, &stats.Users, `SELECT COUNT(*) FROM users`); err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.Actions, `SELECT COUNT(*) FROM logs`); err != nil {
		return Stats{}, fmt.Errorf("count actions: %w", err)
	}
	return stats, nil
}

// User returns a user's counter row; ErrRateNotFound does not apply here, a
// missing user is reported via sql.ErrNoRows wrapped in the returned error.
func (s *Store) User(ctx context.Context, userID int64) (User, error) {
	var u User
	if err := s.db.GetContext(ctx, &u,
		`SELECT user_id, requests FROM users WHERE user_id = ?`, userID,
	); err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
