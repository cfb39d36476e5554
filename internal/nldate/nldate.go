// Package nldate finds due-date expressions in free task text
// ("call mom tomorrow", "report due next Friday", "renew by March 3").
package nldate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"lucid-cli/internal/form"

	"github.com/araddon/dateparse"
)

type Parser struct {
	// Now anchors relative expressions. Defaults to time.Now.
	Now func() time.Time
	Loc *time.Location
}

func New() *Parser {
	return &Parser{Now: time.Now, Loc: time.Local}
}

var (
	reToday     = regexp.MustCompile(`(?i)\b(today|tonight)\b`)
	reTomorrow  = regexp.MustCompile(`(?i)\b(tomorrow|tmrw)\b`)
	reYesterday = regexp.MustCompile(`(?i)\byesterday\b`)
	reNextUnit  = regexp.MustCompile(`(?i)\bnext (week|month)\b`)
	reInN       = regexp.MustCompile(`(?i)\bin (\d{1,3}) (days?|weeks?)\b`)
	reWeekday   = regexp.MustCompile(`(?i)\b(next |this |on )?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	reISO       = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	reSlash     = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	reMonthDay  = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.? (\d{1,2})(?:st|nd|rd|th)?(?:,? (\d{4}))?\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type span struct {
	start, end int
	date       time.Time
}

// Parse returns every date expression in text, ordered by position.
// Expressions nested inside a longer one ("friday" in "next friday") are dropped.
func (p *Parser) Parse(text string) []form.DateMatch {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	today := p.today()

	var spans []span
	add := func(loc []int, d time.Time) {
		spans = append(spans, span{start: loc[0], end: loc[1], date: d})
	}

	for _, m := range reToday.FindAllStringIndex(text, -1) {
		add(m, today)
	}
	for _, m := range reTomorrow.FindAllStringIndex(text, -1) {
		add(m, today.AddDate(0, 0, 1))
	}
	for _, m := range reYesterday.FindAllStringIndex(text, -1) {
		add(m, today.AddDate(0, 0, -1))
	}
	for _, m := range reNextUnit.FindAllStringSubmatchIndex(text, -1) {
		switch strings.ToLower(text[m[2]:m[3]]) {
		case "week":
			add(m, today.AddDate(0, 0, 7))
		case "month":
			add(m, today.AddDate(0, 1, 0))
		}
	}
	for _, m := range reInN.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(text[m[4]:m[5]]), "week") {
			n *= 7
		}
		add(m, today.AddDate(0, 0, n))
	}
	for _, m := range reWeekday.FindAllStringSubmatchIndex(text, -1) {
		modifier := ""
		if m[2] >= 0 {
			modifier = strings.TrimSpace(strings.ToLower(text[m[2]:m[3]]))
		}
		wd := weekdays[strings.ToLower(text[m[4]:m[5]])]
		add(m, weekdayDate(today, wd, modifier == "next"))
	}
	for _, m := range reISO.FindAllStringIndex(text, -1) {
		if d, ok := p.absolute(text[m[0]:m[1]]); ok {
			add(m, d)
		}
	}
	for _, m := range reSlash.FindAllStringIndex(text, -1) {
		if d, ok := p.absolute(text[m[0]:m[1]]); ok {
			add(m, d)
		}
	}
	for _, m := range reMonthDay.FindAllStringSubmatchIndex(text, -1) {
		if d, ok := p.monthDay(text, m, today); ok {
			add(m, d)
		}
	}

	return toMatches(text, dropNested(spans))
}

func (p *Parser) loc() *time.Location {
	if p.Loc == nil {
		return time.Local
	}
	return p.Loc
}

func (p *Parser) today() time.Time {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	t := now().In(p.loc())
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc())
}

func (p *Parser) absolute(s string) (time.Time, bool) {
	t, err := dateparse.ParseIn(s, p.loc())
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc()), true
}

// monthDay handles "March 14", "Mar 14th", "March 14, 2026". Without a year the
// next occurrence (today or later) is used.
func (p *Parser) monthDay(text string, m []int, today time.Time) (time.Time, bool) {
	month := text[m[2]:m[3]]
	if strings.EqualFold(month, "sept") {
		month = "sep"
	}
	day := text[m[4]:m[5]]
	year := ""
	if m[6] >= 0 {
		year = text[m[6]:m[7]]
	}
	explicitYear := year != ""
	if !explicitYear {
		year = strconv.Itoa(today.Year())
	}
	d, ok := p.absolute(month + " " + day + ", " + year)
	if !ok {
		return time.Time{}, false
	}
	if !explicitYear && d.Before(today) {
		d = d.AddDate(1, 0, 0)
	}
	return d, true
}

// weekdayDate returns the next wd on or after today. With next=true a weekday
// still ahead in the current (Monday-first) week is pushed to the following week.
func weekdayDate(today time.Time, wd time.Weekday, next bool) time.Time {
	days := (int(wd) - int(today.Weekday()) + 7) % 7
	if next {
		if days == 0 || isoDay(wd) > isoDay(today.Weekday()) {
			days += 7
		}
	}
	return today.AddDate(0, 0, days)
}

func isoDay(wd time.Weekday) int { return (int(wd) + 6) % 7 }

func dropNested(spans []span) []span {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	out := make([]span, 0, len(spans))
	for _, s := range spans {
		if n := len(out); n > 0 && s.start >= out[n-1].start && s.end <= out[n-1].end {
			continue
		}
		out = append(out, s)
	}
	return out
}

func toMatches(text string, spans []span) []form.DateMatch {
	if len(spans) == 0 {
		return nil
	}
	out := make([]form.DateMatch, 0, len(spans))
	for _, s := range spans {
		out = append(out, form.DateMatch{Date: s.date, Pos: s.start, Text: text[s.start:s.end]})
	}
	return out
}
