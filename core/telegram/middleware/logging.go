package middleware

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"kursbot/core/logger"
)

// LoggerMiddleware logs one receipt line per inbound update. Message text is
// truncated to its first 50 characters.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()

		chatID, userID := int64(0), int64(0)
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}

		attrs := []slog.Attr{
			slog.String("event", "update.received"),
			slog.String("rid", logger.BuildRID(upd.ID, chatID, userID)),
			slog.Int64("user_id", userID),
		}
		switch {
		case upd.Callback != nil:
			attrs = append(attrs, slog.String("kind", "callback"),
				slog.String("payload", logger.SanitizeLimit(upd.Callback.Data, 50)))
		case upd.Message != nil:
			attrs = append(attrs, slog.String("kind", "message"),
				slog.String("payload", logger.SanitizeLimit(c.Text(), 50)))
		default:
			attrs = append(attrs, slog.String("kind", "other"))
		}
		logger.TG.LogAttrs(context.Background(), slog.LevelInfo, "update received", attrs...)

		return next(c)
	}
}
