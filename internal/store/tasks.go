package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"lucid-cli/internal/model"
)

const dueDateLayout = "2006-01-02"

type TaskFilter struct {
	// ProjectID limits results to one project when non-empty.
	ProjectID        string
	IncludeCompleted bool
	// DueBefore keeps only tasks with a due date strictly before this day.
	DueBefore *time.Time
}

func (s Store) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return model.Task{}, ErrEmptyContent
	}
	var t model.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := newUniqueID(ctx, tx, "tasks", taskIDPrefix)
		if err != nil {
			return err
		}
		now := s.now()
		t = model.Task{ID: id, CreatedAt: now, UpdatedAt: now}
		if err := applyTaskInput(ctx, tx, &t, in); err != nil {
			return err
		}
		if err := writeTask(ctx, tx, t); err != nil {
			return err
		}
		return appendEvent(ctx, tx, now, EventTaskCreate, t.ID, t)
	})
	return t, err
}

func (s Store) UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return model.Task{}, ErrEmptyContent
	}
	var t model.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.now()
		t = cur
		t.UpdatedAt = now
		if err := applyTaskInput(ctx, tx, &t, in); err != nil {
			return err
		}
		if err := writeTask(ctx, tx, t); err != nil {
			return err
		}
		return appendEvent(ctx, tx, now, EventTaskUpdate, t.ID, t)
	})
	return t, err
}

// SetTaskCompleted is idempotent: setting the current state only refreshes UpdatedAt.
func (s Store) SetTaskCompleted(ctx context.Context, id string, completed bool) (model.Task, error) {
	var t model.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.now()
		t = cur
		t.UpdatedAt = now
		if completed != cur.Completed {
			t.Completed = completed
			if completed {
				at := now
				t.CompletedAt = &at
			} else {
				t.CompletedAt = nil
			}
		}
		if err := writeTask(ctx, tx, t); err != nil {
			return err
		}
		typ := EventTaskReopen
		if completed {
			typ = EventTaskComplete
		}
		return appendEvent(ctx, tx, now, typ, t.ID, map[string]any{"completed": completed})
	})
	return t, err
}

func (s Store) DeleteTask(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return err
		}
		return appendEvent(ctx, tx, s.now(), EventTaskDelete, id, map[string]any{"content": t.Content})
	})
}

func (s Store) GetTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := s.withDB(ctx, func(db *sql.DB) error {
		var err error
		t, err = getTask(ctx, db, id)
		return err
	})
	return t, err
}

// ListTasks orders open tasks first, then by due date (undated last), then by creation.
func (s Store) ListTasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if !f.IncludeCompleted {
		where = append(where, "completed = 0")
	}
	if f.DueBefore != nil {
		where = append(where, "due_date != '' AND due_date < ?")
		args = append(args, f.DueBefore.Format(dueDateLayout))
	}
	q := `SELECT json FROM tasks`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += ` ORDER BY completed, due_date = '', due_date, created_at_unixms, id`

	var out []model.Task
	err := s.withDB(ctx, func(db *sql.DB) error {
		var err error
		out, err = readJSONRows[model.Task](ctx, db, q, args...)
		return err
	})
	return out, err
}

func getTask(ctx context.Context, q queryer, id string) (model.Task, error) {
	return readJSONRow[model.Task](ctx, q, "task", id, `SELECT json FROM tasks WHERE id = ?`, id)
}

// applyTaskInput copies in onto t, resolving the project name from the
// projects table rather than trusting the caller's copy.
func applyTaskInput(ctx context.Context, tx *sql.Tx, t *model.Task, in model.TaskInput) error {
	t.Content = in.Content
	t.DueDate = nil
	if in.DueDate != nil {
		d := model.StartOfDay(*in.DueDate)
		t.DueDate = &d
	}
	t.ProjectID = nil
	t.ProjectName = ""
	if in.ProjectID != nil && strings.TrimSpace(*in.ProjectID) != "" {
		p, err := getProject(ctx, tx, strings.TrimSpace(*in.ProjectID))
		if err != nil {
			return err
		}
		pid := p.ID
		t.ProjectID = &pid
		t.ProjectName = p.Name
	}
	return nil
}

func writeTask(ctx context.Context, tx *sql.Tx, t model.Task) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	projectID := ""
	if t.ProjectID != nil {
		projectID = *t.ProjectID
	}
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format(dueDateLayout)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks(id, project_id, content, completed, due_date, created_at_unixms, json, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			content = excluded.content,
			completed = excluded.completed,
			due_date = excluded.due_date,
			json = excluded.json,
			updated_at_unixms = excluded.updated_at_unixms
	`, t.ID, projectID, t.Content, boolToInt(t.Completed), due, t.CreatedAt.UnixMilli(), string(b), t.UpdatedAt.UnixMilli())
	return err
}
