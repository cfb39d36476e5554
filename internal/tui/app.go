package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"lucid-cli/internal/config"
	"lucid-cli/internal/docs"
	"lucid-cli/internal/form"
	"lucid-cli/internal/model"
	"lucid-cli/internal/nldate"
	"lucid-cli/internal/service"
	"lucid-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalTask
	modalProject
	modalConfirmDelete
	modalDashboard
	modalHelp
)

type deleteTarget int

const (
	deleteTask deleteTarget = iota
	deleteProject
)

const (
	toastTTL       = 5 * time.Second
	reloadInterval = 750 * time.Millisecond
	noteBuffer     = 16
)

type reloadTickMsg struct{}

type dataMsg struct {
	tasks    []model.Task
	projects []model.Project
	err      error
}

type formDoneMsg struct {
	kind    modalKind
	outcome form.Outcome
}

type toggleDoneMsg struct{}

type noteMsg struct{ note form.Notification }

type toastDoneMsg struct{ seq int }

type deleteDoneMsg struct {
	what string
	err  error
}

type dashboardMsg struct {
	dash service.Dashboard
	err  error
}

// tuiSink logs persistence failures and keeps the last one so the modal or
// toast that triggered it can show the reason.
type tuiSink struct {
	logger *slog.Logger

	mu   sync.Mutex
	last error
}

func (s *tuiSink) LogError(context string, err error) {
	form.SlogSink{Logger: s.logger}.LogError(context, err)
	s.mu.Lock()
	s.last = err
	s.mu.Unlock()
}

func (s *tuiSink) take() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.last
	s.last = nil
	return err
}

type appModel struct {
	ctx    context.Context
	svc    *service.Service
	cfg    config.Config
	logger *slog.Logger
	parser *nldate.Parser
	now    func() time.Time

	width  int
	height int

	list     list.Model
	tasks    []model.Task
	projects []model.Project

	// projectFilter is "" for all tasks, otherwise a project id.
	projectFilter string
	showCompleted bool

	sink       *tuiSink
	notes      chan form.Notification
	completion *form.Completion

	toast    *form.Notification
	toastMsg string
	toastSeq int

	modal        modalKind
	taskModal    *taskModal
	projectModal *projectModal

	confirm *confirmDialog

	dashboard *service.Dashboard

	loadErr      string
	lastStoreMod time.Time
}

func newAppModel(ctx context.Context, svc *service.Service, cfg config.Config, logger *slog.Logger) appModel {
	if logger == nil {
		logger = slog.Default()
	}
	m := appModel{
		ctx:    ctx,
		svc:    svc,
		cfg:    cfg,
		logger: logger,
		parser: nldate.New(),
		now:    time.Now,
		sink:   &tuiSink{logger: logger},
		notes:  make(chan form.Notification, noteBuffer),
	}
	m.list = newList("Tasks", []list.Item{})
	notes := m.notes
	m.completion = &form.Completion{
		Persist:     svc.ToggleTask,
		Errors:      m.sink,
		UndoEnabled: cfg.Forms.Undo,
		Notify: form.NotifierFunc(func(n form.Notification) {
			select {
			case notes <- n:
			default:
				// Drop when the UI is not draining.
			}
		}),
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), waitForNote(m.notes), tickReload())
}

func waitForNote(ch <-chan form.Notification) tea.Cmd {
	return func() tea.Msg { return noteMsg{note: <-ch} }
}

func tickReload() tea.Cmd {
	return tea.Tick(reloadInterval, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func toastExpire(seq int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastDoneMsg{seq: seq} })
}

func (m appModel) loadCmd() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	filter := store.TaskFilter{ProjectID: m.projectFilter, IncludeCompleted: m.showCompleted}
	return func() tea.Msg {
		projects, err := svc.Projects(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		tasks, err := svc.Tasks(ctx, filter)
		return dataMsg{tasks: tasks, projects: projects, err: err}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		return m, nil

	case reloadTickMsg:
		if m.storeChanged() {
			return m, tea.Batch(m.loadCmd(), tickReload())
		}
		return m, tickReload()

	case dataMsg:
		m.applyData(msg)
		return m, nil

	case formDoneMsg:
		return m.handleFormDone(msg)

	case toggleDoneMsg:
		return m, m.loadCmd()

	case noteMsg:
		n := msg.note
		m.toast = &n
		m.toastMsg = n.Title
		if n.Variant == form.VariantError {
			if err := m.sink.take(); err != nil {
				m.toastMsg += ": " + rootCause(err)
			}
		}
		m.toastSeq++
		return m, tea.Batch(waitForNote(m.notes), toastExpire(m.toastSeq))

	case toastDoneMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
			m.toastMsg = ""
		}
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.logger.Error("delete failed", "what", msg.what, "err", msg.err)
			return m, m.flash(form.Notification{Title: "Could not delete " + msg.what + ": " + rootCause(msg.err), Variant: form.VariantError})
		}
		if msg.what == "project" {
			m.projectFilter = ""
		}
		return m, tea.Batch(m.loadCmd(), m.flash(form.Notification{Title: strings.ToUpper(msg.what[:1]) + msg.what[1:] + " deleted", Variant: form.VariantSuccess}))

	case dashboardMsg:
		if msg.err != nil {
			m.modal = modalNone
			return m, m.flash(form.Notification{Title: "Could not load dashboard: " + rootCause(msg.err), Variant: form.VariantError})
		}
		d := msg.dash
		m.dashboard = &d
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.modal {
		case modalTask:
			return m.updateTaskModal(msg)
		case modalProject:
			return m.updateProjectModal(msg)
		case modalConfirmDelete:
			return m.updateConfirm(msg)
		case modalDashboard, modalHelp:
			switch msg.String() {
			case "esc", "q", "?", "D", "enter":
				m.modal = modalNone
				m.dashboard = nil
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

// flash shows a notification that did not come from the completion controller.
func (m *appModel) flash(n form.Notification) tea.Cmd {
	m.toast = &n
	m.toastMsg = n.Title
	m.toastSeq++
	return toastExpire(m.toastSeq)
}

func (m *appModel) applyData(msg dataMsg) {
	if msg.err != nil {
		m.loadErr = rootCause(msg.err)
		m.logger.Error("load failed", "err", msg.err)
		return
	}
	m.loadErr = ""
	m.tasks = msg.tasks
	m.projects = msg.projects
	if m.projectFilter != "" && m.findProject(m.projectFilter) == nil {
		m.projectFilter = ""
	}

	curID := ""
	if it, ok := m.list.SelectedItem().(taskItem); ok {
		curID = it.task.ID
	}
	m.list.SetItems(taskItems(m.tasks, m.projects, m.now()))
	if curID != "" {
		selectTaskByID(&m.list, curID)
	}
	m.lastStoreMod = storeModTime(m.cfg.Dir)
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.loadCmd()
	case " ", "x":
		if t, ok := m.selectedTask(); ok {
			c, ctx := m.completion, m.ctx
			id, completed := t.ID, !t.Completed
			return m, func() tea.Msg {
				c.Toggle(ctx, id, completed)
				return toggleDoneMsg{}
			}
		}
		return m, nil
	case "u":
		if m.toast != nil && m.toast.Reversible() {
			undo, ctx := m.toast.Reversal, m.ctx
			m.toast = nil
			m.toastMsg = ""
			return m, func() tea.Msg {
				undo(ctx)
				return toggleDoneMsg{}
			}
		}
		return m, nil
	case "n":
		m.openTaskModal(nil)
		return m, nil
	case "e", "enter":
		if t, ok := m.selectedTask(); ok {
			m.openTaskModal(&t)
		}
		return m, nil
	case "P":
		m.openProjectModal(nil)
		return m, nil
	case "E":
		if p := m.currentProject(); p != nil {
			m.openProjectModal(p)
		}
		return m, nil
	case "p":
		m.projectFilter = m.nextProjectFilter()
		return m, m.loadCmd()
	case "c":
		m.showCompleted = !m.showCompleted
		return m, m.loadCmd()
	case "d":
		if t, ok := m.selectedTask(); ok {
			m.confirm = newConfirmDialog(deleteTask, t.ID, t.Content)
			m.modal = modalConfirmDelete
		}
		return m, nil
	case "X":
		if p := m.currentProject(); p != nil {
			m.confirm = newConfirmDialog(deleteProject, p.ID, p.Name)
			m.modal = modalConfirmDelete
		}
		return m, nil
	case "D":
		m.modal = modalDashboard
		m.dashboard = nil
		ctx, svc := m.ctx, m.svc
		return m, func() tea.Msg {
			d, err := svc.Dashboard(ctx)
			return dashboardMsg{dash: d, err: err}
		}
	case "?":
		m.modal = modalHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *appModel) openTaskModal(editing *model.Task) {
	opts := form.TaskFormOptions{
		Projects:     form.ProjectCandidates(m.projects),
		Submit:       m.svc.CreateTask,
		Errors:       m.sink,
		Context:      "task.create",
		ParseDates:   m.parser.Parse,
		NaturalDates: m.cfg.Forms.NaturalDates,
	}
	if editing != nil {
		opts.Defaults = form.TaskDefaults(*editing)
		opts.Submit = m.svc.UpdateTask(editing.ID)
		opts.Context = "task.update"
	} else if m.projectFilter != "" {
		pid := m.projectFilter
		opts.Defaults = &model.TaskInput{ProjectID: &pid}
	}
	m.taskModal = newTaskModal(form.NewTaskForm(opts), editing, m.parser)
	m.modal = modalTask
}

func (m *appModel) openProjectModal(editing *model.Project) {
	opts := form.ProjectFormOptions{
		DefaultColor: m.cfg.Forms.DefaultColor,
		Submit:       m.svc.CreateProject,
		Errors:       m.sink,
		Context:      "project.create",
	}
	if editing != nil {
		opts.Defaults = form.ProjectDefaults(*editing)
		opts.Submit = m.svc.UpdateProject(editing.ID)
		opts.Context = "project.update"
	}
	f := form.NewProjectForm(opts)
	if editing != nil {
		f.AI.SetEnabled(editing.AITaskGen)
		f.AI.SetPayload(editing.TaskGenPrompt)
	}
	m.projectModal = newProjectModal(f, editing, m.cfg.AI.Enabled)
	m.modal = modalProject
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.taskModal = nil
	m.projectModal = nil
	m.dashboard = nil
}

func (m appModel) updateTaskModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tm := m.taskModal
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "enter", "ctrl+s":
		if tm.form.Submitting() {
			return m, nil
		}
		if !tm.form.Valid() {
			tm.err = "task text is required"
			return m, nil
		}
		f, ctx := tm.form, m.ctx
		return m, func() tea.Msg {
			return formDoneMsg{kind: modalTask, outcome: f.Submit(ctx)}
		}
	}
	return m, tm.update(msg)
}

func (m appModel) updateProjectModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pm := m.projectModal
	key := msg.String()
	switch {
	case key == "esc":
		m.closeModal()
		return m, nil
	case key == "ctrl+s" || (key == "enter" && !pm.inTextarea()):
		if pm.form.Submitting() {
			return m, nil
		}
		if !pm.form.Valid() {
			pm.err = projectRefusal(pm.form)
			return m, nil
		}
		f, ctx := pm.form, m.ctx
		return m, func() tea.Msg {
			return formDoneMsg{kind: modalProject, outcome: f.Submit(ctx)}
		}
	}
	return m, pm.update(msg)
}

func projectRefusal(f *form.ProjectForm) string {
	switch {
	case strings.TrimSpace(f.Name.Value()) == "":
		return "project name is required"
	case f.Color.Selected().IsNone():
		return "pick a color"
	case !f.AI.Valid():
		return "a prompt is required while generation is on"
	}
	return "cannot save yet"
}

func (m appModel) handleFormDone(msg formDoneMsg) (tea.Model, tea.Cmd) {
	if m.modal != msg.kind {
		// Cancelled while saving; the outcome still stands.
		return m, m.loadCmd()
	}
	switch msg.outcome {
	case form.OutcomeSaved:
		what := "Task"
		if msg.kind == modalProject {
			what = "Project"
		}
		m.closeModal()
		return m, tea.Batch(m.loadCmd(), m.flash(form.Notification{Title: what + " saved", Variant: form.VariantSuccess}))
	case form.OutcomeFailed:
		reason := "could not save"
		if err := m.sink.take(); err != nil {
			reason += ": " + rootCause(err)
		}
		m.setModalErr(reason)
	case form.OutcomeRefused:
		m.setModalErr("not saved")
	}
	return m, nil
}

func (m *appModel) setModalErr(s string) {
	switch {
	case m.taskModal != nil:
		m.taskModal.err = s
	case m.projectModal != nil:
		m.projectModal.err = s
	}
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.confirm
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		d.toggleFocus()
		return m, nil
	case "y":
		d.focus = confirmFocusConfirm
	case "enter":
	default:
		return m, nil
	}
	m.modal = modalNone
	if d.focus != confirmFocusConfirm {
		return m, nil
	}

	ctx, svc, id, what := m.ctx, m.svc, d.id, d.what()
	return m, func() tea.Msg {
		var err error
		if what == "project" {
			err = svc.DeleteProject(ctx, id)
		} else {
			err = svc.DeleteTask(ctx, id)
		}
		return deleteDoneMsg{what: what, err: err}
	}
}

func (m appModel) selectedTask() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m appModel) findProject(id string) *model.Project {
	for i := range m.projects {
		if m.projects[i].ID == id {
			return &m.projects[i]
		}
	}
	return nil
}

// currentProject is the filtered project, else the selected task's project.
func (m appModel) currentProject() *model.Project {
	if m.projectFilter != "" {
		return m.findProject(m.projectFilter)
	}
	if t, ok := m.selectedTask(); ok && t.ProjectID != nil {
		return m.findProject(*t.ProjectID)
	}
	return nil
}

func (m appModel) nextProjectFilter() string {
	if len(m.projects) == 0 {
		return ""
	}
	if m.projectFilter == "" {
		return m.projects[0].ID
	}
	for i, p := range m.projects {
		if p.ID == m.projectFilter {
			if i+1 < len(m.projects) {
				return m.projects[i+1].ID
			}
			return ""
		}
	}
	return ""
}

func (m *appModel) resizeList() {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width, h)
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = styleMuted().Render("  No tasks. Press n to add one.")
	}
	if m.loadErr != "" {
		body = styleError().Render("  " + m.loadErr)
	}
	bodyH := m.height - 4
	if bodyH < 1 {
		bodyH = 1
	}
	screen := strings.Join([]string{
		m.header(),
		"",
		normalizePane(body, m.width, bodyH),
		m.footer(),
	}, "\n")

	if modal := m.modalView(); modal != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return screen
}

func (m appModel) header() string {
	scope := "All tasks"
	if p := m.findProject(m.projectFilter); p != nil {
		scope = swatch(p.ColorHex) + " " + p.Name
	}
	open := 0
	for _, t := range m.tasks {
		if !t.Completed {
			open++
		}
	}
	right := fmt.Sprintf("%d open", open)
	if m.showCompleted {
		right += " (showing completed)"
	}
	title := lipgloss.NewStyle().Bold(true).Render("Lucid")
	return fitLine(title+"  "+scope+"  "+styleMuted().Render(right), m.width)
}

func (m appModel) footer() string {
	if m.toast != nil {
		st := styleSuccess()
		if m.toast.Variant == form.VariantError {
			st = styleError()
		}
		s := st.Render(m.toastMsg)
		if m.toast.Reversible() {
			s += "  " + styleMuted().Render("u: undo")
		}
		return fitLine(s, m.width)
	}
	return fitLine(styleMuted().Render("space: done  n: new  e: edit  d: delete  P: project  p: filter  c: completed  D: dashboard  ?: help  q: quit"), m.width)
}

func (m appModel) modalView() string {
	switch m.modal {
	case modalTask:
		return m.taskModal.view(m.width)
	case modalProject:
		return m.projectModal.view(m.width)
	case modalConfirmDelete:
		return m.confirm.view(m.width)
	case modalDashboard:
		return renderModalBox(m.width, "Dashboard", m.dashboardView())
	case modalHelp:
		md, _ := docs.Get("tui")
		return renderModalBox(m.width, "Help", strings.TrimRight(renderMarkdown(md, modalBodyWidth(m.width)), "\n"))
	}
	return ""
}

func (m appModel) dashboardView() string {
	if m.dashboard == nil {
		return styleMuted().Render("loading…")
	}
	d := m.dashboard
	var b strings.Builder
	fmt.Fprintf(&b, "%d tasks  %d open  %d done\n", d.Total, d.Open, d.Completed)
	overdue := fmt.Sprintf("%d overdue", d.Overdue)
	if d.Overdue > 0 {
		overdue = lipgloss.NewStyle().Foreground(colorOverdueFg).Render(overdue)
	}
	fmt.Fprintf(&b, "%s  %s\n\n", overdue, lipgloss.NewStyle().Foreground(colorDueTodayFg).Render(fmt.Sprintf("%d due today", d.DueToday)))
	for _, p := range d.Projects {
		name := p.Name
		if p.ColorHex != "" {
			name = swatch(p.ColorHex) + " " + name
		}
		line := fmt.Sprintf("%s  %d open  %d done", name, p.Open, p.Completed)
		if p.Overdue > 0 {
			line += "  " + lipgloss.NewStyle().Foreground(colorOverdueFg).Render(fmt.Sprintf("%d overdue", p.Overdue))
		}
		b.WriteString(fitLine(line, modalBodyWidth(m.width)) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("esc: close"))
	return b.String()
}

func selectTaskByID(l *list.Model, id string) {
	for i, it := range l.Items() {
		if ti, ok := it.(taskItem); ok && ti.task.ID == id {
			l.Select(i)
			return
		}
	}
}

// storeModTime is the newest mod time of the database and its WAL, so edits
// made by the CLI in another terminal trigger a reload.
func storeModTime(dir string) time.Time {
	var newest time.Time
	for _, name := range []string{"lucid.sqlite", "lucid.sqlite-wal"} {
		st, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if st.ModTime().After(newest) {
			newest = st.ModTime()
		}
	}
	return newest
}

func (m appModel) storeChanged() bool {
	return storeModTime(m.cfg.Dir).After(m.lastStoreMod)
}

// rootCause drops the wrapping added by the service layer.
func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
