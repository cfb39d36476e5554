// Package service is the write path shared by the CLI and the TUI. Its
// methods have the shapes the form package expects for submit callbacks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lucid-cli/internal/aigen"
	"lucid-cli/internal/form"
	"lucid-cli/internal/model"
	"lucid-cli/internal/store"
)

type Repository interface {
	CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error)
	SetTaskCompleted(ctx context.Context, id string, completed bool) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	ListTasks(ctx context.Context, f store.TaskFilter) ([]model.Task, error)

	CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error)
	UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	GetProject(ctx context.Context, id string) (model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)

	ListEvents(ctx context.Context, limit int) ([]model.Event, error)
}

type Service struct {
	Repo Repository
	// Generator seeds tasks for projects created with AI generation on.
	// Nil disables generation.
	Generator  aigen.Generator
	AIMaxTasks int
	Logger     *slog.Logger
	Now        func() time.Time
}

func New(repo Repository, gen aigen.Generator, maxTasks int, logger *slog.Logger) *Service {
	return &Service{Repo: repo, Generator: gen, AIMaxTasks: maxTasks, Logger: logger}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	t, err := s.Repo.CreateTask(ctx, in)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.logger().Debug("task created", "id", t.ID)
	return t, nil
}

// UpdateTask binds id so the result can be handed to a TaskForm as its submit callback.
func (s *Service) UpdateTask(id string) form.SubmitFunc[model.TaskInput, model.Task] {
	return func(ctx context.Context, in model.TaskInput) (model.Task, error) {
		t, err := s.Repo.UpdateTask(ctx, id, in)
		if err != nil {
			return model.Task{}, fmt.Errorf("update task: %w", err)
		}
		s.logger().Debug("task updated", "id", t.ID)
		return t, nil
	}
}

// ToggleTask matches form.CompleteFunc.
func (s *Service) ToggleTask(ctx context.Context, id string, completed bool) error {
	if _, err := s.Repo.SetTaskCompleted(ctx, id, completed); err != nil {
		return fmt.Errorf("set completed: %w", err)
	}
	s.logger().Debug("task completion changed", "id", id, "completed", completed)
	return nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.Repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// CreateProject stores the project and, when AI generation is requested, seeds
// it with generated tasks. Generation failures are logged; the project stands.
func (s *Service) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	p, err := s.Repo.CreateProject(ctx, in)
	if err != nil {
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}
	if p.AITaskGen && s.Generator != nil {
		n, err := s.generateTasks(ctx, p)
		if err != nil {
			s.logger().Warn("task generation failed", "project", p.ID, "err", err)
		} else {
			s.logger().Info("generated tasks", "project", p.ID, "count", n)
		}
	}
	return p, nil
}

func (s *Service) generateTasks(ctx context.Context, p model.Project) (int, error) {
	titles, err := s.Generator.Generate(ctx, p.TaskGenPrompt, s.AIMaxTasks)
	if err != nil {
		return 0, err
	}
	pid := p.ID
	n := 0
	for _, title := range titles {
		if _, err := s.Repo.CreateTask(ctx, model.TaskInput{Content: title, ProjectID: &pid}); err != nil {
			return n, fmt.Errorf("create generated task %q: %w", title, err)
		}
		n++
	}
	return n, nil
}

func (s *Service) UpdateProject(id string) form.SubmitFunc[model.ProjectInput, model.Project] {
	return func(ctx context.Context, in model.ProjectInput) (model.Project, error) {
		p, err := s.Repo.UpdateProject(ctx, id, in)
		if err != nil {
			return model.Project{}, fmt.Errorf("update project: %w", err)
		}
		return p, nil
	}
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.Repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *Service) Tasks(ctx context.Context, f store.TaskFilter) ([]model.Task, error) {
	return s.Repo.ListTasks(ctx, f)
}

func (s *Service) Task(ctx context.Context, id string) (model.Task, error) {
	return s.Repo.GetTask(ctx, id)
}

func (s *Service) Projects(ctx context.Context) ([]model.Project, error) {
	return s.Repo.ListProjects(ctx)
}

func (s *Service) Project(ctx context.Context, id string) (model.Project, error) {
	return s.Repo.GetProject(ctx, id)
}

func (s *Service) Events(ctx context.Context, limit int) ([]model.Event, error) {
	return s.Repo.ListEvents(ctx, limit)
}
