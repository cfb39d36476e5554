package tui

import (
	"strings"

	"lucid-cli/internal/form"
	"lucid-cli/internal/model"
	"lucid-cli/internal/nldate"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type taskField int

const (
	taskFieldContent taskField = iota
	taskFieldDue
	taskFieldProject
	taskFieldCount
)

// taskModal is the create/edit task dialog. All editable state lives in the
// form; the text inputs only mirror it for rendering and cursor handling.
type taskModal struct {
	form    *form.TaskForm
	editing *model.Task

	content textinput.Model
	due     textinput.Model
	focus   taskField

	// pick is the highlighted project candidate; -1 is "no project".
	pick int

	parser *nldate.Parser
	err    string
}

func newTaskModal(f *form.TaskForm, editing *model.Task, parser *nldate.Parser) *taskModal {
	content := textinput.New()
	content.Placeholder = "What needs doing? (try \"call mom tomorrow\")"
	content.CharLimit = 500
	content.SetValue(f.Content.Value())
	content.Focus()

	due := textinput.New()
	due.Placeholder = "tomorrow, next friday, 2025-04-01"
	due.CharLimit = 64

	m := &taskModal{form: f, editing: editing, content: content, due: due, parser: parser, pick: -1}
	if sel := f.Project.Selected(); !sel.IsNone() {
		for i, c := range f.Project.Candidates() {
			if sel.Is(c.ID) {
				m.pick = i
			}
		}
	}
	return m
}

func (m *taskModal) title() string {
	if m.editing != nil {
		return "Edit task"
	}
	return "New task"
}

func (m *taskModal) setFocus(f taskField) {
	m.focus = (f + taskFieldCount) % taskFieldCount
	m.content.Blur()
	m.due.Blur()
	switch m.focus {
	case taskFieldContent:
		m.content.Focus()
	case taskFieldDue:
		m.due.Focus()
	}
}

// update handles keys other than submit/cancel, which the app model owns.
func (m *taskModal) update(msg tea.KeyMsg) tea.Cmd {
	m.err = ""
	switch msg.String() {
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return nil
	case "ctrl+d":
		m.form.SetDueDate(nil)
		m.due.SetValue("")
		return nil
	case "ctrl+n":
		m.form.SetNaturalDates(!m.form.NaturalDates())
		return nil
	case "ctrl+p":
		m.setFocus(taskFieldProject)
		return nil
	}

	switch m.focus {
	case taskFieldContent:
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		m.form.SetContent(m.content.Value())
		return cmd
	case taskFieldDue:
		var cmd tea.Cmd
		m.due, cmd = m.due.Update(msg)
		if v := strings.TrimSpace(m.due.Value()); v != "" {
			if last, ok := form.LastMatch(m.parser.Parse(v)); ok {
				d := last.Date
				m.form.SetDueDate(&d)
			}
		}
		return cmd
	case taskFieldProject:
		m.updateProjectPicker(msg)
	}
	return nil
}

func (m *taskModal) updateProjectPicker(msg tea.KeyMsg) {
	cands := m.form.Project.Candidates()
	switch msg.String() {
	case "left", "h":
		m.pick--
		if m.pick < -1 {
			m.pick = len(cands) - 1
		}
	case "right", "l":
		m.pick++
		if m.pick >= len(cands) {
			m.pick = -1
		}
	case " ", "x":
		if m.pick < 0 {
			m.form.Project.Clear()
			return
		}
		// Choosing the current project again deselects it.
		m.form.SelectProject(cands[m.pick])
	}
}

func (m *taskModal) view(width int) string {
	bodyW := modalBodyWidth(width)
	var b strings.Builder

	b.WriteString(fieldLabel("Task", m.focus == taskFieldContent) + "\n")
	b.WriteString(renderInputLine(bodyW, m.content.View()) + "\n\n")

	dueText := styleMuted().Render("none")
	if d := m.form.DueDate.Value(); d != nil {
		dueText = d.Format("Mon Jan 2, 2006")
	}
	natural := "off"
	if m.form.NaturalDates() {
		natural = "on"
	}
	b.WriteString(fieldLabel("Due", m.focus == taskFieldDue) + "  " + dueText + "  " + styleMuted().Render("(dates from text: "+natural+")") + "\n")
	if m.focus == taskFieldDue {
		b.WriteString(renderInputLine(bodyW, m.due.View()) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fieldLabel("Project", m.focus == taskFieldProject) + "  " + m.projectLine() + "\n\n")

	switch {
	case m.form.Submitting():
		b.WriteString(styleMuted().Render("saving…") + "\n")
	case m.err != "":
		b.WriteString(styleError().Render(m.err) + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(styleMuted().Width(bodyW).Render("enter: save  tab: next field  ctrl+d: clear due  ctrl+n: dates from text  esc: cancel"))
	if m.focus == taskFieldProject {
		b.WriteString("\n" + styleMuted().Width(bodyW).Render("←/→: browse  space: select/deselect"))
	}
	return renderModalBox(width, m.title(), b.String())
}

func (m *taskModal) projectLine() string {
	sel := m.form.Project.Selected()
	cur := styleMuted().Render("none")
	if !sel.IsNone() {
		cur = swatch(sel.Auxiliary) + " " + sel.Name
	}
	if m.focus != taskFieldProject {
		return cur
	}
	highlighted := "(no project)"
	hex := ""
	if cands := m.form.Project.Candidates(); m.pick >= 0 && m.pick < len(cands) {
		highlighted = cands[m.pick].Name
		hex = cands[m.pick].Auxiliary
	}
	pick := lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Render(" " + highlighted + " ")
	if hex != "" {
		pick = swatch(hex) + " " + pick
	}
	return cur + "   " + pick
}

