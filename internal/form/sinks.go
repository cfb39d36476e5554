package form

import (
	"context"
	"log/slog"
)

// Variant is the tone of a Notification.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
)

// Notification is a user-facing message. Reversal, when set, undoes the action
// that produced it.
type Notification struct {
	Title    string
	Variant  Variant
	Reversal func(ctx context.Context) Outcome
}

// Reversible reports whether the notification offers an undo.
func (n Notification) Reversible() bool { return n.Reversal != nil }

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// ErrorSink receives failed persistence calls. It is never used for validation refusals.
type ErrorSink interface {
	LogError(context string, err error)
}

// SlogSink logs failures at error level.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) LogError(context string, err error) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Error("persistence failed", "context", context, "err", err)
}

func sinkOrDefault(s ErrorSink) ErrorSink {
	if s == nil {
		return SlogSink{}
	}
	return s
}
