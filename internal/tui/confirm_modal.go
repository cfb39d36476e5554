package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// confirmDialog asks before a destructive action. Focus starts on Cancel.
type confirmDialog struct {
	target deleteTarget
	id     string
	name   string
	focus  confirmModalFocus
}

func newConfirmDialog(target deleteTarget, id, name string) *confirmDialog {
	return &confirmDialog{target: target, id: id, name: name, focus: confirmFocusCancel}
}

func (d *confirmDialog) what() string {
	if d.target == deleteProject {
		return "project"
	}
	return "task"
}

func (d *confirmDialog) toggleFocus() {
	if d.focus == confirmFocusConfirm {
		d.focus = confirmFocusCancel
	} else {
		d.focus = confirmFocusConfirm
	}
}

func (d *confirmDialog) view(width int) string {
	body := fmt.Sprintf("Delete %s %q?", d.what(), d.name)
	if d.target == deleteProject {
		body += "\n" + styleMuted().Render("Its tasks are kept without a project.")
	}

	btn := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	cancel := btn.Render("Cancel")
	remove := btn.Render("Delete")
	switch d.focus {
	case confirmFocusConfirm:
		remove = btn.Foreground(colorAccentFg).Background(colorOverdueFg).Bold(true).Render("Delete")
	case confirmFocusCancel:
		cancel = btn.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).Render("Cancel")
	}
	gap := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, remove, gap, cancel)

	help := styleMuted().Width(modalBodyWidth(width)).Render("y: delete  n/esc: keep  tab: switch  enter: choose")
	return renderModalBox(width, "Delete "+d.what(), strings.Join([]string{body, "", controls, "", help}, "\n"))
}
