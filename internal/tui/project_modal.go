package tui

import (
	"strings"

	"lucid-cli/internal/form"
	"lucid-cli/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type projectField int

const (
	projectFieldName projectField = iota
	projectFieldColor
	projectFieldAI
	projectFieldPrompt
	projectFieldCount
)

type projectModal struct {
	form    *form.ProjectForm
	editing *model.Project
	// aiAllowed is false when generation is disabled in config.
	aiAllowed bool

	name   textinput.Model
	prompt textarea.Model
	focus  projectField

	err string
}

func newProjectModal(f *form.ProjectForm, editing *model.Project, aiAllowed bool) *projectModal {
	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 120
	name.SetValue(f.Name.Value())
	name.Focus()

	prompt := textarea.New()
	prompt.Placeholder = "Describe the project; each line or sentence becomes a task"
	prompt.ShowLineNumbers = false
	prompt.SetHeight(4)
	prompt.SetValue(f.AI.Payload())

	return &projectModal{form: f, editing: editing, aiAllowed: aiAllowed, name: name, prompt: prompt}
}

func (m *projectModal) title() string {
	if m.editing != nil {
		return "Edit project"
	}
	return "New project"
}

func (m *projectModal) fieldVisible(f projectField) bool {
	switch f {
	case projectFieldAI:
		return m.aiAllowed
	case projectFieldPrompt:
		return m.aiAllowed && m.form.AI.Enabled()
	}
	return true
}

func (m *projectModal) move(delta int) {
	f := m.focus
	for i := 0; i < int(projectFieldCount); i++ {
		f = projectField((int(f) + delta + int(projectFieldCount)) % int(projectFieldCount))
		if m.fieldVisible(f) {
			break
		}
	}
	m.setFocus(f)
}

func (m *projectModal) setFocus(f projectField) {
	m.focus = f
	m.name.Blur()
	m.prompt.Blur()
	switch f {
	case projectFieldName:
		m.name.Focus()
	case projectFieldPrompt:
		m.prompt.Focus()
	}
}

// inTextarea reports whether enter should insert a newline instead of saving.
func (m *projectModal) inTextarea() bool { return m.focus == projectFieldPrompt }

func (m *projectModal) toggleAI() {
	if !m.aiAllowed {
		return
	}
	m.form.AI.SetEnabled(!m.form.AI.Enabled())
	if !m.fieldVisible(m.focus) {
		m.setFocus(projectFieldAI)
	}
}

func (m *projectModal) update(msg tea.KeyMsg) tea.Cmd {
	m.err = ""
	switch msg.String() {
	case "tab":
		m.move(1)
		return nil
	case "shift+tab":
		m.move(-1)
		return nil
	case "ctrl+a":
		m.toggleAI()
		return nil
	}

	switch m.focus {
	case projectFieldName:
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		m.form.Name.Set(m.name.Value())
		return cmd
	case projectFieldColor:
		m.cycleColor(msg.String())
	case projectFieldAI:
		if s := msg.String(); s == " " || s == "x" {
			m.toggleAI()
		}
	case projectFieldPrompt:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		m.form.AI.SetPayload(m.prompt.Value())
		return cmd
	}
	return nil
}

func (m *projectModal) cycleColor(key string) {
	cands := m.form.Color.Candidates()
	if len(cands) == 0 {
		return
	}
	idx := -1
	sel := m.form.Color.Selected()
	for i, c := range cands {
		if sel.Is(c.ID) {
			idx = i
		}
	}
	switch key {
	case "left", "h":
		idx--
		if idx < 0 {
			idx = len(cands) - 1
		}
	case "right", "l":
		idx = (idx + 1) % len(cands)
	default:
		return
	}
	m.form.SelectColor(cands[idx])
}

func (m *projectModal) view(width int) string {
	bodyW := modalBodyWidth(width)
	var b strings.Builder

	b.WriteString(fieldLabel("Name", m.focus == projectFieldName) + "\n")
	b.WriteString(renderInputLine(bodyW, m.name.View()) + "\n\n")

	color := styleError().Render("pick a color")
	if sel := m.form.Color.Selected(); !sel.IsNone() {
		color = swatch(sel.Auxiliary) + " " + sel.Name
	}
	if m.focus == projectFieldColor {
		color += "  " + styleMuted().Render("←/→")
	}
	b.WriteString(fieldLabel("Color", m.focus == projectFieldColor) + "  " + color + "\n\n")

	if m.aiAllowed {
		box := "[ ]"
		if m.form.AI.Enabled() {
			box = "[x]"
		}
		b.WriteString(fieldLabel("Generate tasks", m.focus == projectFieldAI) + "  " + box + "\n")
		if m.form.AI.Enabled() {
			m.prompt.SetWidth(bodyW - 2)
			prompt := lipgloss.NewStyle().Background(colorInputBg).Render(m.prompt.View())
			b.WriteString(fieldLabel("Prompt", m.focus == projectFieldPrompt) + "\n" + prompt + "\n")
			if !m.form.AI.Valid() {
				b.WriteString(styleMuted().Render("a prompt is required while generation is on") + "\n")
			}
		}
		b.WriteString("\n")
	}

	switch {
	case m.form.Submitting():
		b.WriteString(styleMuted().Render("saving…") + "\n")
	case m.err != "":
		b.WriteString(styleError().Render(m.err) + "\n")
	default:
		b.WriteString("\n")
	}
	help := "enter: save  tab: next field  ctrl+a: toggle generation  esc: cancel"
	if m.inTextarea() {
		help = "ctrl+s: save  tab: next field  esc: cancel"
	}
	b.WriteString(styleMuted().Width(bodyW).Render(help))
	return renderModalBox(width, m.title(), b.String())
}
