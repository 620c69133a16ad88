package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	coreconfig "kursbot/core/config"
)

var (
	initOnce sync.Once
	levelVar slog.LevelVar

	// L is the base structured logger.
	L *slog.Logger

	// App logs application lifecycle events.
	App *slog.Logger
	// DB logs database events.
	DB *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// Store logs rate-store events.
	Store *slog.Logger
)

func init() {
	// Sane default until InitLogger runs (tests, early startup).
	wire(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})))
}

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		levelVar.Set(parseLevel(cfg.Logging.Level))

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, opts)
		default:
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		wire(logger)
	})
	return nil
}

func wire(logger *slog.Logger) {
	L = logger
	App = L.With("component", "app")
	DB = L.With("component", "db")
	MIG = L.With("component", "db.migrate")
	TG = L.With("component", "tg")
	Store = L.With("component", "storage")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RoundMS rounds a duration to whole milliseconds for compact log output.
func RoundMS(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
