package mail

import "log/slog"

// Mailer sends a single plain-text email.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// Dispatcher tries the primary provider first and falls back to the
// secondary. Callers only observe whether the message was delivered by any
// provider; which provider failed (or that one was absent) stays internal.
type Dispatcher struct {
	primary  Mailer
	fallback Mailer
}

// NewDispatcher builds a Dispatcher. Either provider may be nil when that
// transport is not configured.
func NewDispatcher(primary, fallback Mailer) *Dispatcher {
	return &Dispatcher{primary: primary, fallback: fallback}
}

// Send returns true when some provider accepted the message.
func (d *Dispatcher) Send(to, subject, body string) bool {
	if d.primary != nil {
		err := d.primary.SendEmail(to, subject, body)
		if err == nil {
			return true
		}
		slog.Warn("primary mail provider failed, trying fallback", "err", err)
	}
	if d.fallback == nil {
		slog.Error("no mail provider available")
		return false
	}
	if err := d.fallback.SendEmail(to, subject, body); err != nil {
		slog.Error("fallback mail provider failed", "err", err)
		return false
	}
	return true
}
