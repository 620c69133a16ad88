package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	coreconfig "kursbot/core/config"
	"kursbot/core/logger"
)

// DSN builds the sqlite connection string for the given database config.
// busy_timeout makes a connection wait instead of failing while another
// writer holds the file lock.
func DSN(cfg coreconfig.DatabaseConfig) string {
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		cfg.Path, cfg.BusyTimeoutMS,
	)
}

// Connect opens the sqlite database and verifies connectivity.
func Connect(cfg coreconfig.DatabaseConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "sqlite", DSN(cfg))
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", "sqlite"),
			slog.String("path", cfg.Path),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	// Single connection: sqlite is a single-writer store and the busy
	// timeout already serializes contention at the file level.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", "sqlite"),
		slog.String("path", cfg.Path),
		slog.Int("busy_timeout_ms", cfg.BusyTimeoutMS),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return db, nil
}
