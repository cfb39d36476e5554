package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"lucid-cli/internal/model"
)

func (s Store) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	in, err := normalizeProjectInput(in)
	if err != nil {
		return model.Project{}, err
	}
	var p model.Project
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := newUniqueID(ctx, tx, "projects", projectIDPrefix)
		if err != nil {
			return err
		}
		now := s.now()
		p = model.Project{ID: id, CreatedAt: now, UpdatedAt: now}
		applyProjectInput(&p, in)
		if err := writeProject(ctx, tx, p); err != nil {
			return err
		}
		return appendEvent(ctx, tx, now, EventProjectCreate, p.ID, p)
	})
	return p, err
}

// UpdateProject rewrites the project and re-denormalizes its name onto tasks.
func (s Store) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	in, err := normalizeProjectInput(in)
	if err != nil {
		return model.Project{}, err
	}
	var p model.Project
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.now()
		p = cur
		applyProjectInput(&p, in)
		p.UpdatedAt = now
		if err := writeProject(ctx, tx, p); err != nil {
			return err
		}
		if cur.Name != p.Name {
			tasks, err := readJSONRows[model.Task](ctx, tx, `SELECT json FROM tasks WHERE project_id = ?`, id)
			if err != nil {
				return err
			}
			for _, t := range tasks {
				t.ProjectName = p.Name
				if err := writeTask(ctx, tx, t); err != nil {
					return err
				}
			}
		}
		return appendEvent(ctx, tx, now, EventProjectUpdate, p.ID, p)
	})
	return p, err
}

// DeleteProject removes the project and detaches its tasks.
func (s Store) DeleteProject(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getProject(ctx, tx, id); err != nil {
			return err
		}
		now := s.now()
		tasks, err := readJSONRows[model.Task](ctx, tx, `SELECT json FROM tasks WHERE project_id = ?`, id)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			t.ProjectID = nil
			t.ProjectName = ""
			t.UpdatedAt = now
			if err := writeTask(ctx, tx, t); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
			return err
		}
		return appendEvent(ctx, tx, now, EventProjectDelete, id, map[string]any{"detachedTasks": len(tasks)})
	})
}

func (s Store) GetProject(ctx context.Context, id string) (model.Project, error) {
	var p model.Project
	err := s.withDB(ctx, func(db *sql.DB) error {
		var err error
		p, err = getProject(ctx, db, id)
		return err
	})
	return p, err
}

func (s Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := s.withDB(ctx, func(db *sql.DB) error {
		var err error
		out, err = readJSONRows[model.Project](ctx, db, `SELECT json FROM projects ORDER BY name COLLATE NOCASE, id`)
		return err
	})
	return out, err
}

func getProject(ctx context.Context, q queryer, id string) (model.Project, error) {
	return readJSONRow[model.Project](ctx, q, "project", id, `SELECT json FROM projects WHERE id = ?`, id)
}

func writeProject(ctx context.Context, tx *sql.Tx, p model.Project) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects(id, name, json, updated_at_unixms)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			json = excluded.json,
			updated_at_unixms = excluded.updated_at_unixms
	`, p.ID, p.Name, string(b), p.UpdatedAt.UnixMilli())
	return err
}

func normalizeProjectInput(in model.ProjectInput) (model.ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, ErrEmptyName
	}
	key := in.ColorName
	if strings.TrimSpace(key) == "" {
		key = in.ColorHex
	}
	if strings.TrimSpace(key) == "" {
		key = model.DefaultColorName
	}
	c, ok := model.FindColor(key)
	if !ok {
		return in, fmt.Errorf("unknown color: %q", key)
	}
	in.ColorName, in.ColorHex = c.Name, c.Hex
	in.TaskGenPrompt = strings.TrimSpace(in.TaskGenPrompt)
	if !in.AITaskGen {
		in.TaskGenPrompt = ""
	}
	return in, nil
}

func applyProjectInput(p *model.Project, in model.ProjectInput) {
	p.Name = in.Name
	p.ColorName = in.ColorName
	p.ColorHex = in.ColorHex
	p.AITaskGen = in.AITaskGen
	p.TaskGenPrompt = in.TaskGenPrompt
}
