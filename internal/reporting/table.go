package reporting

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/inkproof/galley/internal/models"
)

const (
	maxNameWidth   = 28
	compositeWidth = 9
)

// ComparisonTable lays out one row per evaluated manuscript so batch runs
// can be compared at a glance.
func ComparisonTable(results []*models.EvaluationResult) string {
	if len(results) == 0 {
		return ""
	}

	cats := models.ScoredCategories()

	nameWidth := runewidth.StringWidth("Manuscript")
	for _, r := range results {
		if w := runewidth.StringWidth(displayName(r)); w > nameWidth {
			nameWidth = w
		}
	}
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}

	totalWidth := nameWidth + 2 + compositeWidth
	for _, c := range cats {
		totalWidth += 2 + len(string(c))
	}
	totalWidth += 2 + len("Mode")

	var b strings.Builder

	b.WriteString(padRight("Manuscript", nameWidth))
	b.WriteString("  ")
	b.WriteString(padRight("Composite", compositeWidth))
	for _, c := range cats {
		b.WriteString("  ")
		b.WriteString(string(c))
	}
	b.WriteString("  Mode\n")
	b.WriteString(strings.Repeat("─", totalWidth))
	b.WriteString("\n")

	for _, r := range results {
		b.WriteString(padRight(truncateName(displayName(r), nameWidth), nameWidth))
		b.WriteString("  ")
		b.WriteString(padRight(fmt.Sprintf("%.1f", r.CompositeScore), compositeWidth))
		for _, c := range cats {
			cell := "—"
			if cs := r.FindCategory(c); cs != nil {
				cell = fmt.Sprintf("%.0f", cs.Score)
			}
			b.WriteString("  ")
			b.WriteString(padRight(cell, len(string(c))))
		}
		b.WriteString("  ")
		b.WriteString(runMode(r))
		b.WriteString("\n")
	}

	return b.String()
}

func runMode(r *models.EvaluationResult) string {
	switch {
	case r.Setup.MockMode:
		return "mock"
	case r.Degraded:
		return "mixed"
	default:
		return "model"
	}
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
