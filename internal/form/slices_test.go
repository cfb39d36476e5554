package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldResetRestoresDefault(t *testing.T) {
	t.Parallel()

	f := NewField("A")
	f.Set("B")
	f.Set("C")
	f.Reset()
	assert.Equal(t, "A", f.Value())

	f.Reset()
	assert.Equal(t, "A", f.Value(), "reset is idempotent")
	assert.Equal(t, "A", f.Default())
}

func TestFieldZeroDefault(t *testing.T) {
	t.Parallel()

	s := NewField("")
	s.Set("x")
	s.Reset()
	assert.Equal(t, "", s.Value())

	d := NewField[*time.Time](nil)
	now := time.Now()
	d.Set(&now)
	d.Reset()
	assert.Nil(t, d.Value())
}

func TestFieldResetAfterArbitrarySets(t *testing.T) {
	t.Parallel()

	defaults := []string{"", "A", "hello world", "  "}
	sets := [][]string{
		nil,
		{"x"},
		{"x", "y"},
		{"", "", "z"},
		{"A", "B", "C", "D", "E"},
	}
	for _, def := range defaults {
		for _, seq := range sets {
			f := NewField(def)
			for _, v := range seq {
				f.Set(v)
			}
			f.Reset()
			require.Equal(t, def, f.Value(), "default=%q sets=%v", def, seq)
		}
	}
}

var testCandidates = []Candidate{
	{ID: "p1", Name: "Home", Auxiliary: "#ef4444"},
	{ID: "p2", Name: "Work", Auxiliary: "#3b82f6"},
}

func TestToggleOffOnReselect(t *testing.T) {
	t.Parallel()

	for _, c := range testCandidates {
		s := NewSelection("", testCandidates)
		s.HandleChange(c)
		got := s.HandleChange(c)
		assert.Equal(t, None, got)
		assert.True(t, s.Selected().IsNone())
	}
}

func TestToggleReplacesDifferentCandidate(t *testing.T) {
	t.Parallel()

	cur := Denormalize(testCandidates[0])
	next := Toggle(cur, testCandidates[1])
	require.True(t, next.Is("p2"))
	assert.Equal(t, "Work", next.Name)
	assert.Equal(t, "#3b82f6", next.Auxiliary)

	assert.Equal(t, None, Toggle(cur, testCandidates[0]))
	assert.True(t, Toggle(None, testCandidates[0]).Is("p1"))
}

func TestSelectionResolvesDefault(t *testing.T) {
	t.Parallel()

	s := NewSelection("p2", testCandidates)
	assert.True(t, s.Selected().Is("p2"))
	assert.Equal(t, "Work", s.Selected().Name)
}

func TestSelectionDanglingDefaultIsNone(t *testing.T) {
	t.Parallel()

	s := NewSelection("deleted-project", testCandidates)
	assert.Equal(t, None, s.Selected())

	s = NewSelection("p1", nil)
	assert.Equal(t, None, s.Selected())
}

func TestSelectionClearAndReset(t *testing.T) {
	t.Parallel()

	s := NewSelection("p1", testCandidates)
	s.HandleChange(testCandidates[1])
	s.Clear()
	assert.Equal(t, None, s.Selected())

	// Reset must not depend on the candidate list still holding the default.
	s.SetCandidates(nil)
	s.Reset()
	assert.True(t, s.Selected().Is("p1"))
}

func TestSelectionSelectID(t *testing.T) {
	t.Parallel()

	s := NewSelection("", testCandidates)
	assert.True(t, s.SelectID("p2"))
	assert.True(t, s.Selected().Is("p2"))
	assert.False(t, s.SelectID("nope"))
	assert.True(t, s.Selected().Is("p2"))
}

func TestAugmentationValidity(t *testing.T) {
	t.Parallel()

	a := NewAugmentation(false, RequirePayload)
	assert.True(t, a.Valid(), "disabled is always valid")

	a.SetEnabled(true)
	assert.False(t, a.Valid())
	a.SetPayload("   ")
	assert.False(t, a.Valid())
	a.SetPayload("plan a trip")
	assert.True(t, a.Valid())

	lenient := NewAugmentation(true, AllowEmptyPayload)
	assert.True(t, lenient.Valid())

	nilPolicy := NewAugmentation(true, nil)
	assert.True(t, nilPolicy.Valid())
}

func TestAugmentationReset(t *testing.T) {
	t.Parallel()

	a := NewAugmentation(false, RequirePayload)
	a.SetEnabled(true)
	a.SetPayload("x")
	a.Reset()
	assert.False(t, a.Enabled())
	assert.Equal(t, "", a.Payload())

	b := NewAugmentation(true, RequirePayload)
	b.SetEnabled(false)
	b.SetPayload("x")
	b.Reset()
	assert.True(t, b.Enabled())
	assert.Equal(t, "", b.Payload())
}
