package storage

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the buy/sell price pair for one currency, in UAH.
type Rate struct {
	Currency string          `db:"currency"`
	Buy      decimal.Decimal `db:"buy"`
	Sell     decimal.Decimal `db:"sell"`
}

// User tracks how many logged actions a Telegram user has produced.
type User struct {
	UserID   int64 `db:"user_id"`
	Requests int64 `db:"requests"`
}

// LogEntry is one row of the append-only action log.
type LogEntry struct {
	ID        int64          `db:"id"`
	UserID    int64          `db:"user_id"`
	Action    string         `db:"action"`
	Currency  sql.NullString `db:"currency"`
	Timestamp time.Time      `db:"timestamp"`
}

// Stats aggregates the two global usage counters shown in the admin panel.
type Stats struct {
	Users   int64
	Actions int64
}
