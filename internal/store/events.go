package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"lucid-cli/internal/model"

	"github.com/google/uuid"
)

const (
	EventTaskCreate    = "task.create"
	EventTaskUpdate    = "task.update"
	EventTaskComplete  = "task.complete"
	EventTaskReopen    = "task.reopen"
	EventTaskDelete    = "task.delete"
	EventProjectCreate = "project.create"
	EventProjectUpdate = "project.update"
	EventProjectDelete = "project.delete"
)

func appendEvent(ctx context.Context, tx *sql.Tx, ts time.Time, typ, entityID string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events(event_id, type, entity_id, payload_json, issued_at_unixms)
		VALUES(?, ?, ?, ?, ?)
	`, uuid.NewString(), typ, entityID, string(b), ts.UnixMilli())
	return err
}

// ListEvents returns the most recent events first. limit <= 0 returns all.
func (s Store) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	var out []model.Event
	err := s.withDB(ctx, func(db *sql.DB) error {
		q := `SELECT event_id, type, entity_id, payload_json, issued_at_unixms
			FROM events ORDER BY issued_at_unixms DESC, rowid DESC`
		var args []any
		if limit > 0 {
			q += " LIMIT ?"
			args = append(args, limit)
		}
		rows, err := db.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				ev      model.Event
				payload string
				ms      int64
			)
			if err := rows.Scan(&ev.ID, &ev.Type, &ev.EntityID, &payload, &ms); err != nil {
				return err
			}
			ev.TS = time.UnixMilli(ms)
			if payload != "" && payload != "null" {
				ev.Payload = json.RawMessage(payload)
			}
			out = append(out, ev)
		}
		return rows.Err()
	})
	return out, err
}
