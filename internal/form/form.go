// Package form implements editable form state for tasks and projects: independent
// slices (fields, selections, feature toggles) merged into one payload, a combined
// validity rule, and a guarded submission lifecycle.
package form

import (
	"context"
	"fmt"
	"sync"
)

// Slice is an independently owned unit of editable state.
type Slice interface {
	Reset()
}

// validator is implemented by slices that carry their own validity.
type validator interface {
	Valid() bool
}

// Rule is an entity-level validity check evaluated against current slice values.
type Rule func() bool

// SubmitFunc persists a payload and returns the stored record.
type SubmitFunc[P, R any] func(ctx context.Context, payload P) (R, error)

// Outcome reports what a Submit or Toggle call did.
type Outcome int

const (
	// OutcomeRefused means nothing happened: invalid input, a submission already in
	// flight, or no submit callback.
	OutcomeRefused Outcome = iota
	OutcomeSaved
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeFailed:
		return "failed"
	default:
		return "refused"
	}
}

// result is the two-armed outcome of one submit callback.
type result[R any] struct {
	rec R
	err error
}

// Config wires a Form's slices, rules and callbacks.
type Config[P, R any] struct {
	// Slices are reset after a successful submit and on Reset. Slices that
	// implement Valid() also contribute to the form's validity.
	Slices []Slice
	Rules  []Rule
	// Values merges the current slice values into the payload.
	Values     func() P
	Submit     SubmitFunc[P, R]
	OnComplete func(R)
	Errors     ErrorSink
	// Context labels failures in the error sink (e.g. "task.create").
	Context string
}

// Form owns its slices and the Idle/Submitting state machine.
type Form[P, R any] struct {
	mu         sync.Mutex
	cfg        Config[P, R]
	submitting bool
	gen        uint64
}

// New builds an idle form. A nil Errors sink logs through slog.
func New[P, R any](cfg Config[P, R]) *Form[P, R] {
	cfg.Errors = sinkOrDefault(cfg.Errors)
	return &Form[P, R]{cfg: cfg}
}

// Values returns the merged payload for the current slice values.
func (f *Form[P, R]) Values() P {
	return f.cfg.Values()
}

// Valid is derived from live slice state on every call.
func (f *Form[P, R]) Valid() bool {
	for _, s := range f.cfg.Slices {
		if v, ok := s.(validator); ok && !v.Valid() {
			return false
		}
	}
	for _, r := range f.cfg.Rules {
		if !r() {
			return false
		}
	}
	return true
}

// Submitting reports whether a submission is in flight.
func (f *Form[P, R]) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// SetSubmit swaps the persistence callback (e.g. switching between create and update).
func (f *Form[P, R]) SetSubmit(fn SubmitFunc[P, R]) {
	f.mu.Lock()
	f.cfg.Submit = fn
	f.mu.Unlock()
}

// Submit runs the persistence callback with the current payload. At most one
// submission is in flight; concurrent calls are refused without queueing.
//
// On success every slice is reset and OnComplete is called. On failure the slices
// are left untouched and the error goes to the error sink; it is not returned.
// A submission overtaken by Reset still applies its outcome when it returns.
func (f *Form[P, R]) Submit(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.submitting || f.cfg.Submit == nil || !f.Valid() {
		f.mu.Unlock()
		return OutcomeRefused
	}
	payload := f.cfg.Values()
	submit := f.cfg.Submit
	f.submitting = true
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		// A Reset during the call already returned us to Idle; a newer submission
		// may own the flag now.
		if f.gen == gen {
			f.submitting = false
		}
		f.mu.Unlock()
	}()

	res := call(ctx, submit, payload)
	switch res.err {
	case nil:
		f.resetSlices()
		if f.cfg.OnComplete != nil {
			f.cfg.OnComplete(res.rec)
		}
		return OutcomeSaved
	default:
		f.cfg.Errors.LogError(f.cfg.Context, res.err)
		return OutcomeFailed
	}
}

// Reset cancels editing: it forces Idle and resets every slice.
func (f *Form[P, R]) Reset() {
	f.mu.Lock()
	f.submitting = false
	f.gen++
	f.mu.Unlock()
	f.resetSlices()
}

func (f *Form[P, R]) resetSlices() {
	for _, s := range f.cfg.Slices {
		s.Reset()
	}
}

func call[P, R any](ctx context.Context, fn SubmitFunc[P, R], payload P) (res result[R]) {
	defer func() {
		if r := recover(); r != nil {
			res = result[R]{err: panicError{r}}
		}
	}()
	rec, err := fn(ctx, payload)
	return result[R]{rec: rec, err: err}
}

// panicError turns a recovered panic in a collaborator into an ordinary failure.
type panicError struct{ v any }

func (e panicError) Error() string { return fmt.Sprintf("panic: %v", e.v) }
