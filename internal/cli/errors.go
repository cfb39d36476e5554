package cli

import (
	"fmt"
	"log/slog"

	"lucid-cli/internal/form"

	"github.com/spf13/cobra"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type invalidInputError struct {
	kind   string
	reason string
}

func (e invalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.kind, e.reason)
}

func errInvalid(kind, reason string) error {
	return invalidInputError{kind: kind, reason: reason}
}

// captureSink keeps the last persistence error so a failed submit can be
// reported as the command's error.
type captureSink struct {
	logger *slog.Logger
	err    error
}

func (s *captureSink) LogError(context string, err error) {
	s.err = err
	form.SlogSink{Logger: s.logger}.LogError(context, err)
}

func (s *captureSink) failure(what string) error {
	if s.err == nil {
		return fmt.Errorf("%s failed", what)
	}
	return s.err
}

// stderrNotifier prints notifications the way the TUI would toast them.
func stderrNotifier(cmd *cobra.Command, undoHint string) form.Notifier {
	return form.NotifierFunc(func(n form.Notification) {
		mark := "ok"
		if n.Variant == form.VariantError {
			mark = "error"
		}
		line := fmt.Sprintf("[%s] %s", mark, n.Title)
		if n.Reversible() && undoHint != "" {
			line += " (undo: " + undoHint + ")"
		}
		fmt.Fprintln(cmd.ErrOrStderr(), line)
	})
}
