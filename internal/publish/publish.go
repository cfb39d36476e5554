// Package publish writes projects and their tasks as plain Markdown files.
package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lucid-cli/internal/model"
	"lucid-cli/internal/store"
)

// Source is the read side of the store.
type Source interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListTasks(ctx context.Context, f store.TaskFilter) ([]model.Task, error)
}

type WriteOptions struct {
	IncludeCompleted bool
	Overwrite        bool
	// ProjectID limits output to one project; "" writes everything.
	ProjectID string
	Now       time.Time
}

type WriteResult struct {
	Written []string `json:"written"`
}

// Write renders <toDir>/index.md plus one page per project under
// <toDir>/projects/. Tasks without a project go to projects/inbox.md.
func Write(ctx context.Context, src Source, toDir string, opt WriteOptions) (WriteResult, error) {
	if src == nil {
		return WriteResult{}, errors.New("missing source")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if opt.Now.IsZero() {
		opt.Now = time.Now()
	}

	projects, err := src.ListProjects(ctx)
	if err != nil {
		return WriteResult{}, err
	}
	tasks, err := src.ListTasks(ctx, store.TaskFilter{IncludeCompleted: true})
	if err != nil {
		return WriteResult{}, err
	}

	byProject := map[string][]model.Task{}
	for _, t := range tasks {
		key := ""
		if t.ProjectID != nil {
			key = *t.ProjectID
		}
		byProject[key] = append(byProject[key], t)
	}

	if opt.ProjectID != "" {
		found := false
		for _, p := range projects {
			if p.ID == opt.ProjectID {
				projects = []model.Project{p}
				found = true
				break
			}
		}
		if !found {
			return WriteResult{}, store.NotFoundError{Kind: "project", ID: opt.ProjectID}
		}
	}

	projectsDir := filepath.Join(toDir, "projects")
	if err := os.MkdirAll(projectsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	render := RenderOptions{IncludeCompleted: opt.IncludeCompleted, Now: opt.Now}
	var (
		written []string
		entries []indexEntry
	)
	page := func(name, file string, p *model.Project, ts []model.Task) error {
		path := filepath.Join(projectsDir, file)
		if err := writeFile(path, []byte(RenderProjectMarkdown(p, ts, render)), opt.Overwrite); err != nil {
			return err
		}
		written = append(written, path)
		e := indexEntry{name: name, path: "projects/" + file}
		for _, t := range ts {
			if t.Completed {
				e.completed++
			} else {
				e.open++
			}
		}
		entries = append(entries, e)
		return nil
	}

	if inbox := byProject[""]; opt.ProjectID == "" && len(inbox) > 0 {
		if err := page(inboxName, "inbox.md", nil, inbox); err != nil {
			return WriteResult{}, err
		}
	}
	for i := range projects {
		p := &projects[i]
		if err := page(p.Name, p.ID+".md", p, byProject[p.ID]); err != nil {
			return WriteResult{}, err
		}
	}

	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(renderIndexMarkdown(entries, opt.Now)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: append([]string{indexPath}, written...)}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
