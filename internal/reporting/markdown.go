// Package reporting renders evaluation results for people: a markdown
// report, an HTML rendering of it, a terminal comparison table for batch
// runs, and plain-language interpretation helpers.
package reporting

import (
	"fmt"
	"strings"

	"github.com/inkproof/galley/internal/models"
)

// Markdown renders an evaluation result as a self-contained markdown report.
func Markdown(r *models.EvaluationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Manuscript Evaluation: %s\n\n", displayName(r))

	fmt.Fprintf(&b, "- **Evaluated:** %s\n", r.Timestamp.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "- **Format:** %s (%d characters)\n", r.Manuscript.Format, r.Manuscript.CharCount)
	model := r.Setup.ModelID
	if r.Setup.MockMode {
		model += " (mock mode)"
	}
	fmt.Fprintf(&b, "- **Model:** %s\n", model)
	fmt.Fprintf(&b, "- **Methods:** %s\n", joinMethods(r.Methods))
	fmt.Fprintf(&b, "- **Composite Score:** %.1f / 100 — %s\n", r.CompositeScore, models.ReadinessTier(r.CompositeScore))

	if r.Degraded {
		fmt.Fprintf(&b, "\n> %s\n", InterpretDegraded(r))
	}

	if len(r.CategoryScores) > 0 {
		b.WriteString("\n## Category Scores\n\n")
		b.WriteString("| Category | Score | Source |\n")
		b.WriteString("| --- | ---: | --- |\n")
		for _, cs := range r.CategoryScores {
			fmt.Fprintf(&b, "| %s | %.1f | %s |\n", cs.Category.Title(), cs.Score, cs.Sourced)
		}
		for _, cs := range r.CategoryScores {
			writeCategoryDetail(&b, cs)
		}
	}

	if len(r.CriterionScores) > 0 {
		b.WriteString("\n## Template Criteria\n\n")
		fmt.Fprintf(&b, "Weighted average: %.1f\n\n", models.WeightedMean(r.CriterionScores))
		b.WriteString("| Criterion | Weight | Score | Source |\n")
		b.WriteString("| --- | ---: | ---: | --- |\n")
		for _, c := range r.CriterionScores {
			fmt.Fprintf(&b, "| %s | %.1f | %.1f | %s |\n", escapeCell(c.Name), c.Weight, c.Score, c.Sourced)
		}

		var rationales []models.CriterionSourced
		for _, c := range r.CriterionScores {
			if c.Rationale != "" {
				rationales = append(rationales, c)
			}
		}
		if len(rationales) > 0 {
			b.WriteString("\n")
			for _, c := range rationales {
				fmt.Fprintf(&b, "- **%s** — %s\n", c.Name, c.Rationale)
			}
		}
	}

	return b.String()
}

func writeCategoryDetail(b *strings.Builder, cs models.CategoryScore) {
	fmt.Fprintf(b, "\n### %s — %.1f\n\n", cs.Category.Title(), cs.Score)
	if cs.Summary != "" {
		fmt.Fprintf(b, "%s\n", cs.Summary)
	}
	if len(cs.Strengths) > 0 {
		b.WriteString("\n**Strengths**\n\n")
		for _, s := range cs.Strengths {
			fmt.Fprintf(b, "- %s\n", s)
		}
	}
	if len(cs.Weaknesses) > 0 {
		b.WriteString("\n**Areas for improvement**\n\n")
		for _, s := range cs.Weaknesses {
			fmt.Fprintf(b, "- %s\n", s)
		}
	}
}

func displayName(r *models.EvaluationResult) string {
	if r.Manuscript.Filename != "" {
		return r.Manuscript.Filename
	}
	return "Untitled Manuscript"
}

// escapeCell keeps user-supplied criterion names from breaking table rows.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
