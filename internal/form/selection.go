package form

import (
	"strings"
	"sync"
)

// Candidate is a selectable reference entity (a project, a color).
// Auxiliary carries a denormalized attribute such as a color hex.
type Candidate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Auxiliary string `json:"auxiliary"`
}

// Selected is the denormalized form of a chosen candidate.
// A nil ID is the "none" selection.
type Selected struct {
	ID        *string `json:"id"`
	Name      string  `json:"name"`
	Auxiliary string  `json:"auxiliary"`
}

// None is the canonical empty selection.
var None = Selected{}

func (s Selected) IsNone() bool { return s.ID == nil }

// Is reports whether s refers to the candidate with the given id.
func (s Selected) Is(id string) bool {
	return s.ID != nil && *s.ID == id
}

// IDOrEmpty returns the selected id, or "" for None.
func (s Selected) IDOrEmpty() string {
	if s.ID == nil {
		return ""
	}
	return *s.ID
}

// Denormalize converts a candidate into a selection value.
func Denormalize(c Candidate) Selected {
	id := c.ID
	return Selected{ID: &id, Name: c.Name, Auxiliary: c.Auxiliary}
}

// Toggle returns the selection that results from picking c while cur is selected:
// picking the current candidate again deselects it, anything else replaces it.
func Toggle(cur Selected, c Candidate) Selected {
	if cur.Is(c.ID) {
		return None
	}
	return Denormalize(c)
}

// Resolve looks up id in candidates. Unknown or empty ids resolve to None.
func Resolve(id string, candidates []Candidate) Selected {
	id = strings.TrimSpace(id)
	if id == "" {
		return None
	}
	for _, c := range candidates {
		if c.ID == id {
			return Denormalize(c)
		}
	}
	return None
}

// Selection is a reference-type slice resolved against a read-only candidate list.
type Selection struct {
	mu         sync.RWMutex
	selected   Selected
	def        Selected
	candidates []Candidate
}

// NewSelection resolves defaultID against candidates. A dangling default degrades to None.
func NewSelection(defaultID string, candidates []Candidate) *Selection {
	sel := Resolve(defaultID, candidates)
	return &Selection{
		selected:   sel,
		def:        sel,
		candidates: append([]Candidate(nil), candidates...),
	}
}

// Selected returns the current selection, possibly None.
func (s *Selection) Selected() Selected {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Candidates returns a copy of the candidate list.
func (s *Selection) Candidates() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Candidate(nil), s.candidates...)
}

// SetCandidates replaces the candidate list. The current selection is kept even if
// it no longer appears in the list.
func (s *Selection) SetCandidates(candidates []Candidate) {
	s.mu.Lock()
	s.candidates = append([]Candidate(nil), candidates...)
	s.mu.Unlock()
}

// HandleChange applies Toggle for c and returns the new selection.
func (s *Selection) HandleChange(c Candidate) Selected {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = Toggle(s.selected, c)
	return s.selected
}

// SelectID selects the candidate with the given id. Unknown ids are ignored.
func (s *Selection) SelectID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.candidates {
		if c.ID == id {
			s.selected = Denormalize(c)
			return true
		}
	}
	return false
}

// Clear sets the selection to None.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.selected = None
	s.mu.Unlock()
}

// Reset restores the selection resolved at construction. It never consults the
// current candidate list, which may have lost the item since.
func (s *Selection) Reset() {
	s.mu.Lock()
	s.selected = s.def
	s.mu.Unlock()
}
