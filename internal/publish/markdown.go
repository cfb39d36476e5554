package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"lucid-cli/internal/model"
)

const inboxName = "Inbox"

type RenderOptions struct {
	IncludeCompleted bool
	// Now decides which due dates are overdue.
	Now time.Time
}

// RenderProjectMarkdown renders one project page with its tasks as a checklist.
// A nil project renders the inbox (tasks without a project).
func RenderProjectMarkdown(p *model.Project, tasks []model.Task, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	if p == nil {
		writeLn("# " + inboxName)
		writeLn("")
	} else {
		writeLn("# " + strings.TrimSpace(p.Name))
		writeLn("")
		writeLn("## Meta")
		writeLn("")
		writeLn("- ID: " + p.ID)
		writeLn("- Color: " + p.ColorName + " (" + p.ColorHex + ")")
		writeLn("- Created: " + p.CreatedAt.UTC().Format(time.RFC3339))
		if p.AITaskGen && strings.TrimSpace(p.TaskGenPrompt) != "" {
			writeLn("")
			writeLn("## Generation prompt")
			writeLn("")
			for _, ln := range strings.Split(strings.TrimSpace(p.TaskGenPrompt), "\n") {
				writeLn("> " + ln)
			}
		}
		writeLn("")
	}

	writeLn("## Tasks")
	writeLn("")
	n := 0
	for _, t := range tasks {
		if t.Completed && !opt.IncludeCompleted {
			continue
		}
		writeLn(taskLine(t, opt.Now))
		n++
	}
	if n == 0 {
		writeLn("_No tasks._")
	}
	return buf.String()
}

func taskLine(t model.Task, now time.Time) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	line := "- " + box + " " + escapeInline(t.Content)
	if t.DueDate != nil {
		due := "due " + t.DueDate.Format("2006-01-02")
		if !now.IsZero() && t.Overdue(now) {
			due += ", overdue"
		}
		line += " (" + due + ")"
	}
	return line
}

// indexEntry is one row of the index page.
type indexEntry struct {
	name      string
	path      string
	open      int
	completed int
}

func renderIndexMarkdown(entries []indexEntry, generated time.Time) string {
	var buf bytes.Buffer
	buf.WriteString("# Projects\n\n")
	if !generated.IsZero() {
		buf.WriteString("_Published " + generated.UTC().Format(time.RFC3339) + "._\n\n")
	}
	if len(entries) == 0 {
		buf.WriteString("_Nothing to publish._\n")
		return buf.String()
	}
	buf.WriteString("| Project | Open | Done |\n|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&buf, "| [%s](%s) | %d | %d |\n", escapeInline(e.name), e.path, e.open, e.completed)
	}
	return buf.String()
}

var inlineEscaper = strings.NewReplacer(`|`, `\|`, `[`, `\[`, `]`, `\]`, "\n", " ")

func escapeInline(s string) string {
	return inlineEscaper.Replace(strings.TrimSpace(s))
}
