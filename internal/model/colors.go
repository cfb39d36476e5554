package model

import "strings"

type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Colors is the fixed project palette, in picker order.
var Colors = []Color{
	{Name: "Slate", Hex: "#64748b"},
	{Name: "Red", Hex: "#ef4444"},
	{Name: "Orange", Hex: "#f97316"},
	{Name: "Amber", Hex: "#f59e0b"},
	{Name: "Yellow", Hex: "#eab308"},
	{Name: "Lime", Hex: "#84cc16"},
	{Name: "Green", Hex: "#22c55e"},
	{Name: "Emerald", Hex: "#10b981"},
	{Name: "Teal", Hex: "#14b8a6"},
	{Name: "Cyan", Hex: "#06b6d4"},
	{Name: "Sky", Hex: "#0ea5e9"},
	{Name: "Blue", Hex: "#3b82f6"},
	{Name: "Indigo", Hex: "#6366f1"},
	{Name: "Violet", Hex: "#8b5cf6"},
	{Name: "Purple", Hex: "#a855f7"},
	{Name: "Fuchsia", Hex: "#d946ef"},
	{Name: "Pink", Hex: "#ec4899"},
	{Name: "Rose", Hex: "#f43f5e"},
}

const DefaultColorName = "Slate"

// FindColor looks up a palette entry by name (case-insensitive) or hex.
func FindColor(nameOrHex string) (Color, bool) {
	s := strings.TrimSpace(nameOrHex)
	if s == "" {
		return Color{}, false
	}
	for _, c := range Colors {
		if strings.EqualFold(c.Name, s) || strings.EqualFold(c.Hex, s) {
			return c, true
		}
	}
	return Color{}, false
}
