package reporting

import (
	"fmt"
	"strings"

	"github.com/inkproof/galley/internal/models"
)

// InterpretScore returns a plain-language label for a 0-100 score.
func InterpretScore(score float64) string {
	switch {
	case score >= 90:
		return "Excellent (90+)"
	case score >= 80:
		return "Strong (80-89)"
	case score >= 60:
		return "Promising (60-79)"
	case score >= 40:
		return "Developing (40-59)"
	default:
		return "Early Draft (<40)"
	}
}

// InterpretSource explains where a score came from.
func InterpretSource(source models.Source) string {
	if source == models.SourceMock {
		return "deterministic fallback"
	}
	return "model-scored"
}

// InterpretDegraded explains the degraded flag and what it means for the
// scores in the result.
func InterpretDegraded(r *models.EvaluationResult) string {
	if !r.Degraded {
		return "All scores came back from the model."
	}
	if r.Setup.MockMode {
		return "Scored entirely with the deterministic fallback — no model credential was configured."
	}
	return "Some scores fell back to the deterministic path after model failures; treat them as indicative."
}

// FormatSummaryReport produces a full plain-language report from an EvaluationResult.
func FormatSummaryReport(r *models.EvaluationResult) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")

	b.WriteString(fmt.Sprintf("Composite Score: %.1f — %s\n", r.CompositeScore, InterpretScore(r.CompositeScore)))
	b.WriteString(fmt.Sprintf("Readiness:       %s\n", models.ReadinessTier(r.CompositeScore)))
	if len(r.Methods) > 0 {
		b.WriteString(fmt.Sprintf("Methods:         %s\n", joinMethods(r.Methods)))
	}
	b.WriteString(InterpretDegraded(r) + "\n")

	// Per-category interpretation
	if len(r.CategoryScores) > 0 {
		b.WriteString("\nPer-Category Interpretation:\n")
		for _, cs := range r.CategoryScores {
			icon := "✓"
			if cs.Score < 60 {
				icon = "✗"
			}
			b.WriteString(fmt.Sprintf("  %s %s: %.1f — %s (%s)\n",
				icon, cs.Category.Title(), cs.Score, InterpretScore(cs.Score), InterpretSource(cs.Sourced)))
		}
	}

	if len(r.CriterionScores) > 0 {
		b.WriteString(fmt.Sprintf("\nTemplate Criteria: %d scored, weighted average %.1f\n",
			len(r.CriterionScores), models.WeightedMean(r.CriterionScores)))
	}

	return b.String()
}

func joinMethods(methods []models.Method) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
