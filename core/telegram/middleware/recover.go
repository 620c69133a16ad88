package middleware

import (
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"kursbot/core/logger"
)

// RecoverOptions configures the process-wide fault barrier.
type RecoverOptions struct {
	// Apology is sent best-effort to the user after a panic. Empty disables it.
	Apology string
}

// RecoverMiddleware catches panics in handlers so a single bad update cannot
// crash the bot. The failure is logged with a stack trace and the user gets a
// generic apology; a failed apology send is only logged.
func RecoverMiddleware(opts RecoverOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					logger.TG.Error("panic recovered",
						slog.String("event", "tg.panic"),
						slog.Any("err", r),
						slog.String("stack", string(debug.Stack())),
					)
					if opts.Apology != "" {
						if err := c.Send(opts.Apology); err != nil {
							logger.TG.Error("apology send failed",
								slog.String("event", "tg.panic"),
								slog.String("err", err.Error()),
							)
						}
					}
				}
			}()
			return next(c)
		}
	}
}
