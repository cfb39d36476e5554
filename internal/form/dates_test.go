package form

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	friday = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
)

// weekdayParser recognizes "Monday" and "Friday" only.
func weekdayParser(text string) []DateMatch {
	var out []DateMatch
	for i := 0; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], "Monday"):
			out = append(out, DateMatch{Date: monday, Pos: i, Text: "Monday"})
		case strings.HasPrefix(text[i:], "Friday"):
			out = append(out, DateMatch{Date: friday, Pos: i, Text: "Friday"})
		}
	}
	return out
}

func TestDateObserverPicksLastMatch(t *testing.T) {
	t.Parallel()

	var got []time.Time
	o := DateObserver{
		Parse:       weekdayParser,
		Enabled:     true,
		OnDateFound: func(d time.Time) { got = append(got, d) },
	}
	o.Observe("Meet Monday then call Friday")
	require.Len(t, got, 1)
	assert.Equal(t, friday, got[0])

	got = nil
	o.Observe("Call Friday, sync Monday")
	require.Len(t, got, 1)
	assert.Equal(t, monday, got[0])
}

func TestDateObserverNoMatchNoCall(t *testing.T) {
	t.Parallel()

	called := false
	o := DateObserver{
		Parse:       weekdayParser,
		Enabled:     true,
		OnDateFound: func(time.Time) { called = true },
	}
	o.Observe("buy milk")
	assert.False(t, called)
}

func TestDateObserverDisabled(t *testing.T) {
	t.Parallel()

	called := false
	o := DateObserver{
		Parse:       weekdayParser,
		OnDateFound: func(time.Time) { called = true },
	}
	o.Observe("Friday")
	assert.False(t, called)
}

func TestDateObserverSwallowsParserPanic(t *testing.T) {
	t.Parallel()

	called := false
	o := DateObserver{
		Parse:       func(string) []DateMatch { panic("boom") },
		Enabled:     true,
		OnDateFound: func(time.Time) { called = true },
	}
	assert.NotPanics(t, func() { o.Observe("Friday") })
	assert.False(t, called)
}

func TestLastMatchUsesPosition(t *testing.T) {
	t.Parallel()

	_, ok := LastMatch(nil)
	assert.False(t, ok)

	m, ok := LastMatch([]DateMatch{
		{Date: friday, Pos: 20},
		{Date: monday, Pos: 3},
	})
	require.True(t, ok)
	assert.Equal(t, friday, m.Date)
}
