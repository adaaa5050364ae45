package orchestration

import (
	"fmt"
	"math"

	"github.com/inkproof/galley/internal/models"
)

// Aggregate merges category and criterion scores into one EvaluationResult.
// At least one method and one non-empty score group are required. The
// composite weighs the category average and the weighted criterion average
// equally when both methods ran, so neither method dominates; with a single
// method the composite is that group's average. A derived readiness entry is
// always appended.
func Aggregate(categories []models.CategoryScore, criterionScores []models.CriterionSourced, methods []models.Method) (*models.EvaluationResult, error) {
	if len(methods) == 0 {
		return nil, ErrNoMethodSelected
	}
	if len(categories) == 0 && len(criterionScores) == 0 {
		return nil, ErrNoMethodSelected
	}

	catAvg := models.CategoryMean(categories)
	critAvg := models.WeightedMean(criterionScores)

	var composite float64
	switch {
	case len(categories) > 0 && len(criterionScores) > 0:
		composite = 0.5*catAvg + 0.5*critAvg
	case len(categories) > 0:
		composite = catAvg
	default:
		composite = critAvg
	}
	composite = models.ClampScore(composite)

	merged := make([]models.CategoryScore, 0, len(categories)+1)
	merged = append(merged, categories...)
	merged = append(merged, synthesizeReadiness(composite, categories, criterionScores))

	degraded := false
	for _, c := range categories {
		if c.Sourced == models.SourceMock {
			degraded = true
			break
		}
	}
	if !degraded {
		for _, c := range criterionScores {
			if c.Sourced == models.SourceMock {
				degraded = true
				break
			}
		}
	}

	return &models.EvaluationResult{
		CategoryScores:  merged,
		CriterionScores: criterionScores,
		CompositeScore:  composite,
		Methods:         methods,
		Degraded:        degraded,
	}, nil
}

// synthesizeReadiness derives the readiness entry from the composite score.
// It is AI-sourced as soon as any contributing score is, and mock-sourced
// only when every contributor came from the mock path.
func synthesizeReadiness(composite float64, categories []models.CategoryScore, criterionScores []models.CriterionSourced) models.CategoryScore {
	source := models.SourceMock
	for _, c := range categories {
		if c.Sourced == models.SourceAI {
			source = models.SourceAI
			break
		}
	}
	if source == models.SourceMock {
		for _, c := range criterionScores {
			if c.Sourced == models.SourceAI {
				source = models.SourceAI
				break
			}
		}
	}

	strengths, weaknesses := readinessFindings(categories, criterionScores)

	score := models.ClampScore(math.Round(composite))
	return models.CategoryScore{
		Category:   models.CategoryReadiness,
		Score:      score,
		Summary:    readinessSummary(score),
		Strengths:  strengths,
		Weaknesses: weaknesses,
		Sourced:    source,
	}
}

func readinessSummary(score float64) string {
	switch {
	case score >= 80:
		return "High readiness for publication. Minor revisions recommended before final submission."
	case score >= 60:
		return "Moderate readiness. Targeted revisions would strengthen the manuscript before submission."
	default:
		return "Needs work before submission. Substantial revisions recommended across the flagged areas."
	}
}

// readinessFindings summarizes the contributing groups in narrative form:
// strongest and weakest direct categories, plus the template coverage.
func readinessFindings(categories []models.CategoryScore, criterionScores []models.CriterionSourced) (strengths, weaknesses []string) {
	var best, worst *models.CategoryScore
	for i := range categories {
		c := &categories[i]
		if c.Category == models.CategoryReadiness {
			continue
		}
		if best == nil || c.Score > best.Score {
			best = c
		}
		if worst == nil || c.Score < worst.Score {
			worst = c
		}
	}
	if best != nil {
		strengths = append(strengths, fmt.Sprintf("Strongest category: %s (%.0f)", best.Category.Title(), best.Score))
	}
	if worst != nil && worst != best {
		weaknesses = append(weaknesses, fmt.Sprintf("Weakest category: %s (%.0f)", worst.Category.Title(), worst.Score))
	}

	if len(criterionScores) > 0 {
		strengths = append(strengths, fmt.Sprintf("Scored against %d template criteria (weighted average %.1f)",
			len(criterionScores), models.WeightedMean(criterionScores)))
	}

	return strengths, weaknesses
}
