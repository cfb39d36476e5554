package form

import (
	"context"
	"strings"
)

// CompleteFunc persists a task's completed flag.
type CompleteFunc func(ctx context.Context, id string, completed bool) error

// Completion toggles a task's completed flag and reports the result as a
// notification. Completing can be undone from the notification.
//
// Unlike Form there is no in-flight lock: two quick toggles issue two
// independent persistence calls.
type Completion struct {
	Persist     CompleteFunc
	Notify      Notifier
	Errors      ErrorSink
	UndoEnabled bool
	OnComplete  func(id string, completed bool)
}

// Toggle persists the new completed state and notifies the outcome. Blank ids are refused.
func (c *Completion) Toggle(ctx context.Context, id string, completed bool) Outcome {
	id = strings.TrimSpace(id)
	if id == "" || c.Persist == nil {
		return OutcomeRefused
	}

	if err := c.persist(ctx, id, completed); err != nil {
		sinkOrDefault(c.Errors).LogError("task.complete", err)
		c.notify(Notification{Title: "Could not update task", Variant: VariantError})
		return OutcomeFailed
	}

	n := Notification{Title: "Task marked incomplete", Variant: VariantSuccess}
	if completed {
		n.Title = "Task completed"
		if c.UndoEnabled {
			n.Reversal = func(ctx context.Context) Outcome {
				return c.Toggle(ctx, id, false)
			}
		}
	}
	c.notify(n)
	if c.OnComplete != nil {
		c.OnComplete(id, completed)
	}
	return OutcomeSaved
}

func (c *Completion) persist(ctx context.Context, id string, completed bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{r}
		}
	}()
	return c.Persist(ctx, id, completed)
}

func (c *Completion) notify(n Notification) {
	if c.Notify != nil {
		c.Notify.Notify(n)
	}
}
