package model

import "time"

type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ColorName     string    `json:"color_name"`
	ColorHex      string    `json:"color_hex"`
	AITaskGen     bool      `json:"ai_task_gen"`
	TaskGenPrompt string    `json:"task_gen_prompt,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Task struct {
	ID      string `json:"id"`
	Content string `json:"content"`

	// DueDate is date-only; the time component is always midnight local.
	DueDate *time.Time `json:"due_date,omitempty"`

	ProjectID *string `json:"projectId,omitempty"`
	// ProjectName is denormalized at write time so lists render without a join.
	ProjectName string `json:"projectName,omitempty"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskInput is the flat payload produced by the task form.
type TaskInput struct {
	Content     string     `json:"content"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   *string    `json:"projectId"`
	ProjectName string     `json:"projectName,omitempty"`
}

// ProjectInput is the flat payload produced by the project form.
type ProjectInput struct {
	Name          string `json:"name"`
	ColorName     string `json:"color_name"`
	ColorHex      string `json:"color_hex"`
	AITaskGen     bool   `json:"ai_task_gen"`
	TaskGenPrompt string `json:"task_gen_prompt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}

// DueOn reports whether the task is due on the calendar day of t.
func (t Task) DueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Overdue reports whether an open task's due date is before the calendar day of now.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(StartOfDay(now))
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
