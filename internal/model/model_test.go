package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{name: "no due date", task: Task{}, want: false},
		{name: "due yesterday", task: Task{DueDate: &yesterday}, want: true},
		{name: "due today", task: Task{DueDate: &today}, want: false},
		{name: "completed", task: Task{DueDate: &yesterday, Completed: true}, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.task.Overdue(now))
		})
	}
}

func TestTaskDueOn(t *testing.T) {
	t.Parallel()

	due := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	task := Task{DueDate: &due}
	assert.True(t, task.DueOn(time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)))
	assert.False(t, task.DueOn(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, Task{}.DueOn(due))
}

func TestFindColor(t *testing.T) {
	t.Parallel()

	c, ok := FindColor("blue")
	assert.True(t, ok)
	assert.Equal(t, "#3b82f6", c.Hex)

	c, ok = FindColor("#EF4444")
	assert.True(t, ok)
	assert.Equal(t, "Red", c.Name)

	_, ok = FindColor("chartreuse")
	assert.False(t, ok)

	_, ok = FindColor("  ")
	assert.False(t, ok)
}
