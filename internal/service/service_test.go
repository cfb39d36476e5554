package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"lucid-cli/internal/aigen"
	"lucid-cli/internal/form"
	"lucid-cli/internal/logging"
	"lucid-cli/internal/model"
	"lucid-cli/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, gen aigen.Generator) (*Service, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	repo := store.Store{Dir: t.TempDir(), Now: func() time.Time { return now }}
	svc := New(repo, gen, 5, logging.New(&logs, "debug"))
	svc.Now = func() time.Time { return now }
	return svc, &logs
}

func TestCreateProjectGeneratesTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t, aigen.OutlineGenerator{})

	p, err := svc.CreateProject(ctx, model.ProjectInput{
		Name:          "Trip",
		AITaskGen:     true,
		TaskGenPrompt: "- book flights\n- reserve hotel",
	})
	require.NoError(t, err)

	tasks, err := svc.Tasks(ctx, store.TaskFilter{ProjectID: p.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.ElementsMatch(t, []string{"Book flights", "Reserve hotel"}, []string{tasks[0].Content, tasks[1].Content})
	assert.Equal(t, "Trip", tasks[0].ProjectName)
}

func TestCreateProjectSurvivesGeneratorFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	failing := aigen.GeneratorFunc(func(context.Context, string, int) ([]string, error) {
		return nil, errors.New("model offline")
	})
	svc, logs := newTestService(t, failing)

	p, err := svc.CreateProject(ctx, model.ProjectInput{Name: "Trip", AITaskGen: true, TaskGenPrompt: "pack"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Contains(t, logs.String(), "task generation failed")

	tasks, err := svc.Tasks(ctx, store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateProjectWithoutAISkipsGenerator(t *testing.T) {
	t.Parallel()
	called := false
	gen := aigen.GeneratorFunc(func(context.Context, string, int) ([]string, error) {
		called = true
		return nil, nil
	})
	svc, _ := newTestService(t, gen)
	_, err := svc.CreateProject(context.Background(), model.ProjectInput{Name: "Plain"})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestFormsSubmitThroughService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	pf := form.NewProjectForm(form.ProjectFormOptions{
		DefaultColor: model.DefaultColorName,
		Submit:       svc.CreateProject,
	})
	pf.Name.Set("Errands")
	require.True(t, pf.Valid())
	require.Equal(t, form.OutcomeSaved, pf.Submit(ctx))

	projects, err := svc.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	tf := form.NewTaskForm(form.TaskFormOptions{
		Projects: form.ProjectCandidates(projects),
		Submit:   svc.CreateTask,
	})
	tf.SetContent("buy stamps")
	tf.Project.SelectID(projects[0].ID)
	require.Equal(t, form.OutcomeSaved, tf.Submit(ctx))

	tasks, err := svc.Tasks(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Errands", tasks[0].ProjectName)

	edit := form.NewTaskForm(form.TaskFormOptions{
		Defaults: form.TaskDefaults(tasks[0]),
		Projects: form.ProjectCandidates(projects),
		Submit:   svc.UpdateTask(tasks[0].ID),
	})
	edit.SetContent("buy more stamps")
	require.Equal(t, form.OutcomeSaved, edit.Submit(ctx))

	got, err := svc.Task(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "buy more stamps", got.Content)
	assert.Equal(t, "Errands", got.ProjectName)
}

func TestToggleTaskMissingFails(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, nil)

	c := &form.Completion{Persist: svc.ToggleTask, Errors: form.SlogSink{Logger: svc.Logger}}
	assert.Equal(t, form.OutcomeFailed, c.Toggle(context.Background(), "task-missing", true))
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	p, err := svc.CreateProject(ctx, model.ProjectInput{Name: "Work"})
	require.NoError(t, err)
	pid := p.ID
	yesterday := now.AddDate(0, 0, -1)
	today := now

	_, err = svc.CreateTask(ctx, model.TaskInput{Content: "late", DueDate: &yesterday, ProjectID: &pid})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, model.TaskInput{Content: "today", DueDate: &today})
	require.NoError(t, err)
	done, err := svc.CreateTask(ctx, model.TaskInput{Content: "done", ProjectID: &pid})
	require.NoError(t, err)
	require.NoError(t, svc.ToggleTask(ctx, done.ID, true))

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 2, d.Open)
	assert.Equal(t, 1, d.Completed)
	assert.Equal(t, 1, d.Overdue)
	assert.Equal(t, 1, d.DueToday)

	require.Len(t, d.Projects, 2)
	assert.Equal(t, "Inbox", d.Projects[0].Name)
	assert.Equal(t, 1, d.Projects[0].Open)
	assert.Equal(t, ProjectSummary{ID: p.ID, Name: "Work", ColorHex: p.ColorHex, Open: 1, Completed: 1, Overdue: 1}, d.Projects[1])
}

func TestBuildDashboardEmpty(t *testing.T) {
	t.Parallel()
	d := BuildDashboard(nil, nil, now)
	assert.Zero(t, d.Total)
	assert.Empty(t, d.Projects)
}
