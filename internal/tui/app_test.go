package tui

import (
	"context"
	"io"
	"strings"
	"testing"

	"lucid-cli/internal/aigen"
	"lucid-cli/internal/config"
	"lucid-cli/internal/form"
	"lucid-cli/internal/logging"
	"lucid-cli/internal/model"
	"lucid-cli/internal/service"
	"lucid-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T) (appModel, *service.Service) {
	t.Helper()

	dir := t.TempDir()
	logger := logging.New(io.Discard, "error")
	svc := service.New(store.Store{Dir: dir}, aigen.OutlineGenerator{}, 10, logger)
	cfg := config.Default()
	cfg.Dir = dir

	m := newAppModel(context.Background(), svc, cfg, logger)
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return reload(t, m), svc
}

func send(m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	mm, cmd := m.Update(msg)
	return mm.(appModel), cmd
}

func reload(t *testing.T, m appModel) appModel {
	t.Helper()
	msg := m.loadCmd()()
	if dm, ok := msg.(dataMsg); !ok || dm.err != nil {
		t.Fatalf("load: %#v", msg)
	}
	m, _ = send(m, msg)
	return m
}

// runCmd runs a single (non-batched) command and feeds its message back.
func runCmd(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	m, _ = send(m, cmd())
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mustCreateTask(t *testing.T, svc *service.Service, content string) model.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), model.TaskInput{Content: content})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestNewTaskModalSaves(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	m, _ = send(m, key("n"))
	if m.modal != modalTask || m.taskModal == nil {
		t.Fatalf("expected task modal, got %v", m.modal)
	}
	m, _ = send(m, key("Call mom tomorrow"))
	if m.taskModal.form.DueDate.Value() == nil {
		t.Fatalf("expected due date detected from text")
	}

	m, cmd := send(m, key("enter"))
	m = runCmd(t, m, cmd)
	if m.modal != modalNone {
		t.Fatalf("expected modal closed after save, got %v", m.modal)
	}
	if m.toast == nil || m.toastMsg != "Task saved" {
		t.Fatalf("expected saved toast, got %q", m.toastMsg)
	}

	tasks, err := svc.Tasks(context.Background(), store.TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Content != "Call mom tomorrow" || tasks[0].DueDate == nil {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestTaskModalRefusesEmptyContent(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	m, _ = send(m, key("n"))
	m, cmd := send(m, key("enter"))
	if cmd != nil {
		t.Fatalf("expected no submit for an empty task")
	}
	if m.modal != modalTask || m.taskModal.err == "" {
		t.Fatalf("expected modal to stay open with an error")
	}
	tasks, _ := svc.Tasks(context.Background(), store.TaskFilter{})
	if len(tasks) != 0 {
		t.Fatalf("expected nothing persisted, got %+v", tasks)
	}

	m, _ = send(m, key("esc"))
	if m.modal != modalNone || m.taskModal != nil {
		t.Fatalf("expected esc to close the modal")
	}
}

func TestEditFailureKeepsModalOpen(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	task := mustCreateTask(t, svc, "Write report")
	m = reload(t, m)

	m, _ = send(m, key("e"))
	if m.taskModal == nil || m.taskModal.editing == nil {
		t.Fatalf("expected edit modal")
	}
	if err := svc.DeleteTask(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}

	m, cmd := send(m, key("enter"))
	m = runCmd(t, m, cmd)
	if m.modal != modalTask {
		t.Fatalf("expected modal to stay open on failure")
	}
	if !strings.Contains(m.taskModal.err, "not found") {
		t.Fatalf("expected persistence error in modal, got %q", m.taskModal.err)
	}
	if got := m.taskModal.form.Content.Value(); got != "Write report" {
		t.Fatalf("expected input preserved, got %q", got)
	}
}

func TestToggleCompletionAndUndo(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	task := mustCreateTask(t, svc, "Water plants")
	m = reload(t, m)

	m, cmd := send(m, key(" "))
	m = runCmd(t, m, cmd)
	m, _ = send(m, noteMsg{note: <-m.notes})
	if m.toast == nil || !m.toast.Reversible() {
		t.Fatalf("expected an undoable toast, got %+v", m.toast)
	}
	got, _ := svc.Task(context.Background(), task.ID)
	if !got.Completed {
		t.Fatalf("expected task completed")
	}

	m, cmd = send(m, key("u"))
	m = runCmd(t, m, cmd)
	got, _ = svc.Task(context.Background(), task.ID)
	if got.Completed {
		t.Fatalf("expected undo to reopen the task")
	}
	m, _ = send(m, noteMsg{note: <-m.notes})
	if m.toast == nil || m.toast.Reversible() {
		t.Fatalf("reopen notice should not be undoable")
	}
}

func TestToastExpiresBySequence(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	m, _ = send(m, noteMsg{note: form.Notification{Title: "one", Variant: form.VariantSuccess}})
	first := m.toastSeq
	m, _ = send(m, noteMsg{note: form.Notification{Title: "two", Variant: form.VariantSuccess}})

	m, _ = send(m, toastDoneMsg{seq: first})
	if m.toast == nil || m.toastMsg != "two" {
		t.Fatalf("stale expiry must not clear a newer toast")
	}
	m, _ = send(m, toastDoneMsg{seq: m.toastSeq})
	if m.toast != nil {
		t.Fatalf("expected toast cleared")
	}
}

func TestNewProjectWithGeneratedTasks(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	m, _ = send(m, key("P"))
	if m.modal != modalProject {
		t.Fatalf("expected project modal")
	}
	m, _ = send(m, key("Garden"))
	m, _ = send(m, key("ctrl+a"))
	if !m.projectModal.form.AI.Enabled() {
		t.Fatalf("expected generation enabled")
	}

	// Generation on with an empty prompt is not submittable.
	m, cmd := send(m, key("enter"))
	if cmd != nil || m.projectModal.err == "" {
		t.Fatalf("expected refusal without a prompt")
	}

	for i := 0; i < 3; i++ {
		m, _ = send(m, key("tab"))
	}
	if m.projectModal.focus != projectFieldPrompt {
		t.Fatalf("expected prompt focus, got %v", m.projectModal.focus)
	}
	m, _ = send(m, key("Buy soil. Plant tomatoes"))

	pm := m.projectModal
	m, cmd = send(m, key("ctrl+s"))
	m = runCmd(t, m, cmd)
	if m.modal != modalNone {
		t.Fatalf("expected modal closed, err=%q", pm.err)
	}

	projects, _ := svc.Projects(context.Background())
	if len(projects) != 1 || projects[0].Name != "Garden" || projects[0].ColorName != model.DefaultColorName {
		t.Fatalf("unexpected projects: %+v", projects)
	}
	tasks, _ := svc.Tasks(context.Background(), store.TaskFilter{ProjectID: projects[0].ID})
	if len(tasks) != 2 {
		t.Fatalf("expected 2 generated tasks, got %+v", tasks)
	}
}

func TestProjectModalColorCycles(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	m, _ = send(m, key("P"))
	m, _ = send(m, key("tab"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.projectModal.form.Color.Selected().Name; got != model.Colors[1].Name {
		t.Fatalf("expected %s, got %s", model.Colors[1].Name, got)
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.projectModal.form.Color.Selected().Name; got != model.Colors[len(model.Colors)-1].Name {
		t.Fatalf("expected wrap to last color, got %s", got)
	}
}

func TestDeleteTaskNeedsConfirmation(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	mustCreateTask(t, svc, "Old chore")
	m = reload(t, m)

	m, _ = send(m, key("d"))
	if m.modal != modalConfirmDelete || m.confirm.focus != confirmFocusCancel {
		t.Fatalf("expected confirm modal focused on cancel")
	}
	m, cmd := send(m, key("enter"))
	if cmd != nil || m.modal != modalNone {
		t.Fatalf("enter on cancel must not delete")
	}

	m, _ = send(m, key("d"))
	m, cmd = send(m, key("y"))
	m = runCmd(t, m, cmd)
	if m.toastMsg != "Task deleted" {
		t.Fatalf("unexpected toast %q", m.toastMsg)
	}
	tasks, _ := svc.Tasks(context.Background(), store.TaskFilter{IncludeCompleted: true})
	if len(tasks) != 0 {
		t.Fatalf("expected task deleted, got %+v", tasks)
	}
}

func TestProjectFilterCycles(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	ctx := context.Background()
	a, err := svc.CreateProject(ctx, model.ProjectInput{Name: "Alpha", ColorName: "Red"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.CreateProject(ctx, model.ProjectInput{Name: "Beta", ColorName: "Blue"})
	if err != nil {
		t.Fatal(err)
	}
	aid := a.ID
	if _, err := svc.CreateTask(ctx, model.TaskInput{Content: "in alpha", ProjectID: &aid}); err != nil {
		t.Fatal(err)
	}
	mustCreateTask(t, svc, "loose")
	m = reload(t, m)
	if len(m.list.Items()) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(m.list.Items()))
	}

	for _, want := range []string{a.ID, b.ID, ""} {
		var cmd tea.Cmd
		m, cmd = send(m, key("p"))
		if m.projectFilter != want {
			t.Fatalf("expected filter %q, got %q", want, m.projectFilter)
		}
		m = runCmd(t, m, cmd)
		if want == a.ID && len(m.list.Items()) != 1 {
			t.Fatalf("expected 1 task in Alpha, got %d", len(m.list.Items()))
		}
	}

	// New tasks default to the filtered project.
	m, cmd := send(m, key("p"))
	m = runCmd(t, m, cmd)
	m, _ = send(m, key("n"))
	if !m.taskModal.form.Project.Selected().Is(a.ID) {
		t.Fatalf("expected Alpha preselected")
	}
}

func TestDashboardAndHelpModals(t *testing.T) {
	t.Parallel()

	m, svc := newTestApp(t)
	mustCreateTask(t, svc, "one")
	m = reload(t, m)

	m, cmd := send(m, key("D"))
	if m.modal != modalDashboard {
		t.Fatalf("expected dashboard modal")
	}
	m = runCmd(t, m, cmd)
	if m.dashboard == nil || m.dashboard.Open != 1 {
		t.Fatalf("unexpected dashboard %+v", m.dashboard)
	}
	if !strings.Contains(m.View(), "Dashboard") {
		t.Fatalf("expected dashboard in view")
	}
	m, _ = send(m, key("esc"))
	if m.modal != modalNone {
		t.Fatalf("expected dashboard closed")
	}

	m, _ = send(m, key("?"))
	if m.modal != modalHelp || !strings.Contains(m.View(), "Help") {
		t.Fatalf("expected help modal")
	}
}

func TestViewShowsEmptyState(t *testing.T) {
	t.Parallel()

	m, _ := newTestApp(t)
	if v := m.View(); !strings.Contains(v, "No tasks") {
		t.Fatalf("expected empty state, got:\n%s", v)
	}
}
