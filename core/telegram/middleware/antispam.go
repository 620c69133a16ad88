package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"kursbot/core/logger"
)

// Verdict is the anti-spam decision for one inbound message.
type Verdict int

const (
	// VerdictAccept lets the message through to the handlers.
	VerdictAccept Verdict = iota
	// VerdictNotice drops the message but tells the user to slow down.
	VerdictNotice
	// VerdictDrop discards the message silently.
	VerdictDrop
)

// sweepEvery controls how often the last-seen map is purged of stale entries.
const sweepEvery = 512

// Gate enforces a minimum interval between messages of the same user.
// Messages inside the hard interval are dropped silently; inside the soft
// interval the user gets a throttle notice. Accepted messages refresh the
// user's timestamp.
type Gate struct {
	soft time.Duration
	hard time.Duration

	mu       sync.Mutex
	lastSeen map[int64]time.Time
	checks   int
}

// NewGate creates a gate with the given soft/hard intervals.
func NewGate(soft, hard time.Duration) *Gate {
	return &Gate{
		soft:     soft,
		hard:     hard,
		lastSeen: make(map[int64]time.Time),
	}
}

// Check classifies a message arriving from userID at the given moment.
func (g *Gate) Check(userID int64, now time.Time) Verdict {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.checks++
	if g.checks >= sweepEvery {
		g.checks = 0
		g.sweepLocked(now)
	}

	if last, ok := g.lastSeen[userID]; ok {
		elapsed := now.Sub(last)
		if elapsed < g.hard {
			return VerdictDrop
		}
		if elapsed < g.soft {
			return VerdictNotice
		}
	}
	g.lastSeen[userID] = now
	return VerdictAccept
}

// sweepLocked evicts users idle for at least ten soft intervals so the map
// does not grow without bound.
func (g *Gate) sweepLocked(now time.Time) {
	horizon := 10 * g.soft
	for id, ts := range g.lastSeen {
		if now.Sub(ts) >= horizon {
			delete(g.lastSeen, id)
		}
	}
}

// AntiSpamOptions configures the anti-spam middleware.
type AntiSpamOptions struct {
	Gate *Gate
	// OnThrottled is invoked when a message gets a throttle notice.
	OnThrottled tele.HandlerFunc
}

// AntiSpamMiddleware gates inbound text messages through the provided Gate.
// Callback updates and updates without an identifiable sender pass through
// untouched.
func AntiSpamMiddleware(opts AntiSpamOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Gate == nil || c.Update().Message == nil {
				return next(c)
			}

			switch opts.Gate.Check(user.ID, time.Now()) {
			case VerdictDrop:
				logger.TG.Debug("message dropped",
					slog.String("event", "tg.antispam"),
					slog.Int64("user_id", user.ID),
					slog.String("verdict", "drop"),
				)
				return nil
			case VerdictNotice:
				logger.TG.Warn("user throttled",
					slog.String("event", "tg.antispam"),
					slog.Int64("user_id", user.ID),
					slog.String("verdict", "notice"),
				)
				if opts.OnThrottled != nil {
					_ = opts.OnThrottled(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
