package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"kursbot/core/logger"
	"kursbot/core/telegram/session"
)

// Route declares a single bot handler bound to an endpoint. Endpoint values
// are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RouterOptions wires the dispatch tables to the conversation state machine.
type RouterOptions struct {
	Sessions *session.Manager
	// StateHandlers maps a non-idle FSM state to the handler that consumes
	// free-form text while that state is active.
	StateHandlers map[session.State]tele.HandlerFunc
	// Apology is sent best-effort when a handler returns an error.
	Apology string
}

// Routes builds the full dispatch table: one route per command, a text route
// covering FSM input and menu labels, and a callback route.
func Routes(reg *Registry, opts RouterOptions) []Route {
	routes := make([]Route, 0, len(reg.Commands())+2)
	for name, cmd := range reg.Commands() {
		handler := cmd.Handler
		handlerName := strings.TrimPrefix(name, "/")
		routes = append(routes, Route{
			Endpoint: name,
			Handler: func(c tele.Context) error {
				return dispatch(c, handlerName, opts.Apology, handler)
			},
		})
	}
	routes = append(routes,
		Route{Endpoint: tele.OnText, Handler: textHandler(reg, opts)},
		Route{Endpoint: tele.OnCallback, Handler: callbackHandler(reg, opts)},
	)
	return routes
}

// textHandler routes free-form text: state-machine input first, then menu
// labels. Unmatched text is ignored silently.
func textHandler(reg *Registry, opts RouterOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		if opts.Sessions != nil {
			state := opts.Sessions.State(c.Sender().ID)
			if h, ok := opts.StateHandlers[state]; ok && state != session.StateIdle {
				return dispatch(c, "state."+string(state), opts.Apology, h)
			}
		}
		if h, ok := reg.GetMenu(c.Text()); ok {
			return dispatch(c, "menu", opts.Apology, h)
		}
		return nil
	}
}

// callbackHandler routes a callback by its unique key. Handlers acknowledge
// the callback themselves so they can choose between a plain ack and an
// alert; unknown keys are acked here and ignored.
func callbackHandler(reg *Registry, opts RouterOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		key, _ := ParseCallbackData(cb)
		h, ok := reg.GetCallback(key)
		if !ok {
			_ = c.Respond()
			logger.TG.Debug("callback ignored",
				slog.String("event", "tg.callback"),
				slog.String("cb_key", logger.SanitizeLimit(key, 64)),
			)
			return nil
		}
		return dispatch(c, "callback."+key, opts.Apology, h)
	}
}

// dispatch runs a handler behind the error barrier: a returned error is
// logged, the user gets the apology, and nil is propagated so telebot never
// sees a failing handler.
func dispatch(c tele.Context, name, apology string, h tele.HandlerFunc) error {
	start := time.Now()
	err := h(c)

	attrs := []slog.Attr{
		slog.String("event", "handler.handled"),
		slog.String("handler", name),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err == nil {
		logger.TG.LogAttrs(context.Background(), slog.LevelDebug, "handler ok", attrs...)
		return nil
	}

	attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	logger.TG.LogAttrs(context.Background(), slog.LevelError, "handler failed", attrs...)
	if apology != "" {
		if sendErr := c.Send(apology); sendErr != nil {
			logger.TG.Error("apology send failed",
				slog.String("event", "handler.handled"),
				slog.String("err", sendErr.Error()),
			)
		}
	}
	return nil
}

// ParseCallbackData parses Telebot's \f<unique>|<payload> encoding.
// Returns the unique key and payload (payload may be empty).
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}

// CallbackPayload returns the payload portion of the pressed button's data.
func CallbackPayload(c tele.Context) string {
	_, payload := ParseCallbackData(c.Callback())
	return payload
}
