package cli

import (
	"fmt"
	"strings"
	"time"

	"lucid-cli/internal/form"
	"lucid-cli/internal/nldate"

	"github.com/spf13/cobra"
)

func newDatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Date expression helpers",
	}
	cmd.AddCommand(newDatesParseCmd(app))
	return cmd
}

type dateMatchOut struct {
	Date string `json:"date"`
	Pos  int    `json:"pos"`
	Text string `json:"text"`
}

func newDatesParseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text...>",
		Short: "Show the date expressions found in text and the one a task would use",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			matches := nldate.New().Parse(text)
			out := make([]dateMatchOut, 0, len(matches))
			for _, m := range matches {
				out = append(out, dateMatchOut{Date: m.Date.Format(time.DateOnly), Pos: m.Pos, Text: m.Text})
			}
			var due any
			if last, ok := form.LastMatch(matches); ok {
				due = last.Date.Format(time.DateOnly)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"text":    text,
				"matches": out,
				"due":     due,
			}})
		},
	}
}

// parseDue reads an explicit --due value: an ISO date or any single expression
// the natural date parser understands.
func parseDue(p *nldate.Parser, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return d, nil
	}
	if last, ok := form.LastMatch(p.Parse(s)); ok {
		return last.Date, nil
	}
	return time.Time{}, fmt.Errorf("could not parse due date: %q", s)
}
