package form

import "sync"

// Field holds one editable primitive value and the default it was created with.
//
// Set is unconditional: validation belongs to the owning form and is evaluated
// against the current value at the time it's needed.
type Field[T any] struct {
	mu  sync.RWMutex
	val T
	def T
}

// NewField returns a field whose value and default are both def.
func NewField[T any](def T) *Field[T] {
	return &Field[T]{val: def, def: def}
}

// Value returns the current value.
func (f *Field[T]) Value() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.val
}

// Default returns the value Reset restores.
func (f *Field[T]) Default() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.def
}

// Set replaces the current value.
func (f *Field[T]) Set(v T) {
	f.mu.Lock()
	f.val = v
	f.mu.Unlock()
}

// Reset restores the construction-time default.
func (f *Field[T]) Reset() {
	f.mu.Lock()
	f.val = f.def
	f.mu.Unlock()
}
