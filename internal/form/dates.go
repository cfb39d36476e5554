package form

import "time"

// DateMatch is one temporal expression found in free text.
// Pos is the byte offset of the expression in the source text.
type DateMatch struct {
	Date time.Time `json:"date"`
	Pos  int       `json:"pos"`
	Text string    `json:"text"`
}

// ParseFunc finds date expressions in text, ordered by position ascending.
type ParseFunc func(text string) []DateMatch

// DateObserver feeds text to a parser and pushes the last date found to OnDateFound.
// It never clears a date: no match means no call.
type DateObserver struct {
	Parse       ParseFunc
	Enabled     bool
	OnDateFound func(time.Time)
}

// Observe parses text and reports the last date found, if any.
func (o DateObserver) Observe(text string) {
	if !o.Enabled || o.Parse == nil || o.OnDateFound == nil {
		return
	}
	m, ok := LastMatch(o.safeParse(text))
	if !ok {
		return
	}
	o.OnDateFound(m.Date)
}

// A parser failure is indistinguishable from "nothing to parse".
func (o DateObserver) safeParse(text string) (out []DateMatch) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()
	return o.Parse(text)
}

// LastMatch returns the rightmost match in the source text.
func LastMatch(matches []DateMatch) (DateMatch, bool) {
	if len(matches) == 0 {
		return DateMatch{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Pos >= best.Pos {
			best = m
		}
	}
	return best, true
}
