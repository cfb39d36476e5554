package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"lucid-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	task     model.Task
	colorHex string
	now      time.Time
}

func (i taskItem) FilterValue() string { return i.task.Content + " " + i.task.ProjectName }
func (i taskItem) Title() string       { return i.task.Content }

func (i taskItem) dueLabel() string {
	if i.task.DueDate == nil {
		return ""
	}
	switch {
	case i.task.DueOn(i.now):
		return "today"
	case i.task.DueOn(i.now.AddDate(0, 0, 1)):
		return "tomorrow"
	}
	return i.task.DueDate.Format("Mon Jan 2")
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, taskDelegate{}, 0, 0)
	l.Title = title
	// We render our own header and footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("task", "tasks")
	return l
}

func taskItems(tasks []model.Task, projects []model.Project, now time.Time) []list.Item {
	colors := make(map[string]string, len(projects))
	for _, p := range projects {
		colors[p.ID] = p.ColorHex
	}
	out := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		it := taskItem{task: t, now: now}
		if t.ProjectID != nil {
			it.colorHex = colors[*t.ProjectID]
		}
		out = append(out, it)
	}
	return out
}

// taskDelegate renders one line per task: checkbox, content, due label, project.
type taskDelegate struct{}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(taskItem)
	if !ok || contentW < 8 {
		fmt.Fprint(w, "")
		return
	}

	box := "[ ]"
	if it.task.Completed {
		box = "[x]"
	}

	var meta []string
	if due := it.dueLabel(); due != "" {
		st := styleMuted()
		switch {
		case it.task.Overdue(it.now):
			st = lipgloss.NewStyle().Foreground(colorOverdueFg)
		case it.task.DueOn(it.now):
			st = lipgloss.NewStyle().Foreground(colorDueTodayFg)
		}
		meta = append(meta, st.Render(due))
	}
	if it.task.ProjectName != "" {
		meta = append(meta, swatch(it.colorHex)+" "+styleMuted().Render(it.task.ProjectName))
	}
	right := strings.Join(meta, "  ")

	content := it.task.Content
	if it.task.Completed {
		content = styleMuted().Strikethrough(true).Render(content)
	}
	left := box + " " + content

	gap := contentW - xansi.StringWidth(left) - xansi.StringWidth(right)
	var line string
	if right == "" {
		line = fitLine(left, contentW)
	} else if gap >= 2 {
		line = left + strings.Repeat(" ", gap) + right
	} else {
		leftW := contentW - xansi.StringWidth(right) - 2
		if leftW < 4 {
			line = fitLine(left, contentW)
		} else {
			line = fitLine(left, leftW) + "  " + right
		}
	}

	if index == m.Index() {
		line = lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true).
			Render(xansi.Strip(line))
	}
	fmt.Fprint(w, line)
}
