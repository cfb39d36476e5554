// Package aigen turns a project's generation prompt into initial task titles.
package aigen

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

var ErrEmptyPrompt = errors.New("empty generation prompt")

// Generator produces at most max task titles for prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, max int) ([]string, error)
}

type GeneratorFunc func(ctx context.Context, prompt string, max int) ([]string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, max int) ([]string, error) {
	return f(ctx, prompt, max)
}

// OutlineGenerator works offline: it splits the prompt into steps using list
// markers, line breaks, and finally sentence boundaries.
type OutlineGenerator struct{}

var (
	reListMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)]|\[[ xX]?\])\s*`)
	reSentence   = regexp.MustCompile(`[.;!?]+\s+|\s+(?:then|and then)\s+`)
)

func (OutlineGenerator) Generate(ctx context.Context, prompt string, max int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	var parts []string
	lines := strings.Split(strings.ReplaceAll(prompt, "\r\n", "\n"), "\n")
	if len(nonEmpty(lines)) > 1 {
		parts = lines
	} else {
		parts = reSentence.Split(prompt, -1)
	}

	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		title := cleanTitle(p)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, title)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, nil
}

func cleanTitle(s string) string {
	s = reListMarker.ReplaceAllString(s, "")
	s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".;!?"))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func nonEmpty(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
