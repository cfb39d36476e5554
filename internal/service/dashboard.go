package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"lucid-cli/internal/model"
	"lucid-cli/internal/store"
)

type Dashboard struct {
	Total     int              `json:"total"`
	Open      int              `json:"open"`
	Completed int              `json:"completed"`
	Overdue   int              `json:"overdue"`
	DueToday  int              `json:"dueToday"`
	Projects  []ProjectSummary `json:"projects"`
}

// ProjectSummary counts tasks per project. Tasks without a project are
// reported under an empty ID named "Inbox".
type ProjectSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ColorHex  string `json:"colorHex,omitempty"`
	Open      int    `json:"open"`
	Completed int    `json:"completed"`
	Overdue   int    `json:"overdue"`
}

const inboxName = "Inbox"

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	tasks, err := s.Repo.ListTasks(ctx, store.TaskFilter{IncludeCompleted: true})
	if err != nil {
		return Dashboard{}, err
	}
	projects, err := s.Repo.ListProjects(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(tasks, projects, s.now()), nil
}

func BuildDashboard(tasks []model.Task, projects []model.Project, now time.Time) Dashboard {
	byID := map[string]*ProjectSummary{}
	order := make([]*ProjectSummary, 0, len(projects)+1)
	for _, p := range projects {
		ps := &ProjectSummary{ID: p.ID, Name: p.Name, ColorHex: p.ColorHex}
		byID[p.ID] = ps
		order = append(order, ps)
	}
	inbox := &ProjectSummary{Name: inboxName}

	var d Dashboard
	for _, t := range tasks {
		d.Total++
		ps := inbox
		if t.ProjectID != nil {
			if p, ok := byID[*t.ProjectID]; ok {
				ps = p
			}
		}
		if t.Completed {
			d.Completed++
			ps.Completed++
			continue
		}
		d.Open++
		ps.Open++
		if t.Overdue(now) {
			d.Overdue++
			ps.Overdue++
		}
		if t.DueOn(now) {
			d.DueToday++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return strings.ToLower(order[i].Name) < strings.ToLower(order[j].Name)
	})
	d.Projects = make([]ProjectSummary, 0, len(order)+1)
	if inbox.Open+inbox.Completed > 0 {
		d.Projects = append(d.Projects, *inbox)
	}
	for _, ps := range order {
		d.Projects = append(d.Projects, *ps)
	}
	return d
}
