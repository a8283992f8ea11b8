package domain

import "strings"

// DefaultAnchorName is the reserved category that marks a day's start-of-day
// reference point. Matching is case-insensitive.
const DefaultAnchorName = "Obudzenie"

// palette is the fixed display palette; new categories cycle through it by
// creation order.
var palette = []string{
	"#3b82f6",
	"#10b981",
	"#8b5cf6",
	"#f97316",
	"#14b8a6",
	"#f59e0b",
	"#ef4444",
	"#6366f1",
	"#f43f5e",
}

// Category is a named activity kind referenced by events. Names are unique
// case-insensitively; categories are never deleted or renamed.
type Category struct {
	ID          string
	Name        string
	Color       string
	Description string
}

// PaletteColor returns the default color for a category created when
// existingCount categories already exist.
func PaletteColor(existingCount int) string {
	if existingCount < 0 {
		existingCount = 0
	}
	return palette[existingCount%len(palette)]
}

// EqualNames reports whether two names collide under the case-insensitive
// uniqueness rule.
func EqualNames(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// DefaultCategories returns the seed set for an empty store. The wake anchor
// is among them so it always exists.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Praca", Color: "#3b82f6", Description: "Czas spędzony na pracy"},
		{Name: "Sport", Color: "#10b981", Description: "Aktywność fizyczna"},
		{Name: "Nauka", Color: "#8b5cf6", Description: "Nauka i rozwój"},
		{Name: "Odpoczynek", Color: "#f59e0b", Description: "Relaks i regeneracja"},
		{Name: DefaultAnchorName, Color: "#ef4444", Description: "Początek dnia"},
	}
}
