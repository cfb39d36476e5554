package form

import (
	"strings"
	"sync"
)

// ValidityPolicy decides whether an enabled augmentation's payload is acceptable.
type ValidityPolicy func(payload string) bool

// Built-in payload policies.
var (
	AllowEmptyPayload ValidityPolicy = func(string) bool { return true }
	RequirePayload    ValidityPolicy = func(p string) bool { return strings.TrimSpace(p) != "" }
)

// Augmentation is an optional feature toggle with a dependent text payload
// (e.g. AI task generation + its prompt).
type Augmentation struct {
	mu         sync.RWMutex
	enabled    bool
	payload    string
	defEnabled bool
	policy     ValidityPolicy
}

// NewAugmentation returns a toggle in the given state. A nil policy accepts any payload.
func NewAugmentation(enabled bool, policy ValidityPolicy) *Augmentation {
	if policy == nil {
		policy = AllowEmptyPayload
	}
	return &Augmentation{enabled: enabled, defEnabled: enabled, policy: policy}
}

// Enabled reports whether the feature is switched on.
func (a *Augmentation) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Payload returns the dependent text, kept even while disabled.
func (a *Augmentation) Payload() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.payload
}

// SetEnabled switches the feature on or off without touching the payload.
func (a *Augmentation) SetEnabled(b bool) {
	a.mu.Lock()
	a.enabled = b
	a.mu.Unlock()
}

// SetPayload replaces the dependent text.
func (a *Augmentation) SetPayload(s string) {
	a.mu.Lock()
	a.payload = s
	a.mu.Unlock()
}

// Valid is always true while disabled.
func (a *Augmentation) Valid() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.enabled {
		return true
	}
	return a.policy(a.payload)
}

// Reset restores the initial toggle state and clears the payload.
func (a *Augmentation) Reset() {
	a.mu.Lock()
	a.enabled = a.defEnabled
	a.payload = ""
	a.mu.Unlock()
}
