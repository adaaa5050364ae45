package models

import "fmt"

// Category identifies one of the six fixed evaluation dimensions.
type Category string

const (
	CategoryLineEditing   Category = "line-editing"
	CategoryPlot          Category = "plot"
	CategoryCharacter     Category = "character"
	CategoryFlow          Category = "flow"
	CategoryWorldbuilding Category = "worldbuilding"
	// CategoryReadiness is derived from the other five by the aggregator and
	// is never scored directly.
	CategoryReadiness Category = "readiness"
)

// ScoredCategories returns the five directly-scored categories in their
// canonical order. CategoryReadiness is excluded because it is computed from
// the others.
func ScoredCategories() []Category {
	return []Category{
		CategoryLineEditing,
		CategoryPlot,
		CategoryCharacter,
		CategoryFlow,
		CategoryWorldbuilding,
	}
}

// Title returns the human-readable name used in reports.
func (c Category) Title() string {
	switch c {
	case CategoryLineEditing:
		return "Line & Copy Editing"
	case CategoryPlot:
		return "Plot Evaluation"
	case CategoryCharacter:
		return "Character Evaluation"
	case CategoryFlow:
		return "Book Flow Evaluation"
	case CategoryWorldbuilding:
		return "Worldbuilding & Setting"
	case CategoryReadiness:
		return "Readiness Score"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLineEditing, CategoryPlot, CategoryCharacter,
		CategoryFlow, CategoryWorldbuilding, CategoryReadiness:
		return true
	}
	return false
}

// ParseCategory converts a string form (e.g. "plot") into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}
