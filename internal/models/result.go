package models

import (
	"math"
	"time"
)

// Source records which path produced a score.
type Source string

const (
	SourceAI   Source = "ai"
	SourceMock Source = "mock"
)

// Method identifies an evaluation method requested by the caller.
type Method string

const (
	MethodBasic    Method = "basic"
	MethodTemplate Method = "template"
)

// CategoryScore is the outcome of scoring one fixed category.
type CategoryScore struct {
	Category   Category `json:"category"`
	Score      float64  `json:"score"`
	Summary    string   `json:"summary,omitempty"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Sourced    Source   `json:"sourced"`
}

// CriterionScore is the outcome of scoring one template criterion.
type CriterionScore struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
	Weight    float64 `json:"weight"`
}

// CriterionSourced pairs a CriterionScore with its provenance. The weighted
// composite only needs the scores, but degraded tracking needs to know which
// criteria fell back to the mock path.
type CriterionSourced struct {
	CriterionScore
	Sourced Source `json:"sourced"`
}

// ManuscriptInfo carries the identifying metadata for the evaluated document.
type ManuscriptInfo struct {
	Filename  string `json:"filename,omitempty"`
	Format    string `json:"format"`
	CharCount int    `json:"char_count"`
}

// ResultSetup records the evaluation configuration that produced a result.
type ResultSetup struct {
	ModelID    string `json:"model_id"`
	TimeoutSec int    `json:"timeout_sec"`
	Workers    int    `json:"workers"`
	MockMode   bool   `json:"mock_mode"`
}

// EvaluationResult is the merged outcome of one evaluation request. It is
// created once by the aggregator and never mutated afterwards.
type EvaluationResult struct {
	EvalID          string             `json:"eval_id"`
	Timestamp       time.Time          `json:"timestamp"`
	Manuscript      ManuscriptInfo     `json:"manuscript"`
	Setup           ResultSetup        `json:"config"`
	CategoryScores  []CategoryScore    `json:"category_scores"`
	CriterionScores []CriterionSourced `json:"criterion_scores,omitempty"`
	CompositeScore  float64            `json:"composite_score"`
	Methods         []Method           `json:"methods"`
	Degraded        bool               `json:"degraded"`
}

// HasMethod reports whether the result was produced with the given method.
func (r *EvaluationResult) HasMethod(m Method) bool {
	for _, v := range r.Methods {
		if v == m {
			return true
		}
	}
	return false
}

// FindCategory returns the score for a category, or nil if absent.
func (r *EvaluationResult) FindCategory(c Category) *CategoryScore {
	for i := range r.CategoryScores {
		if r.CategoryScores[i].Category == c {
			return &r.CategoryScores[i]
		}
	}
	return nil
}

// ReadinessTier maps a composite score to the submission-readiness label
// used in reports and the derived readiness summary.
func ReadinessTier(score float64) string {
	switch {
	case score >= 80:
		return "High Readiness"
	case score >= 60:
		return "Moderate Readiness"
	default:
		return "Needs Work"
	}
}

// ClampScore bounds a score to the [0,100] scale.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// CategoryMean returns the arithmetic mean of the directly-scored category
// scores, ignoring any derived readiness entry. Returns 0 for an empty input.
func CategoryMean(scores []CategoryScore) float64 {
	sum := 0.0
	n := 0
	for _, s := range scores {
		if s.Category == CategoryReadiness {
			continue
		}
		sum += s.Score
		n++
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// WeightedMean returns the weight-weighted mean of criterion scores. A
// non-positive weight counts as 1.0 so a single malformed entry cannot zero
// out the whole group. Returns 0 for an empty input.
func WeightedMean(scores []CriterionSourced) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	totalWeight := 0.0
	weightedSum := 0.0
	for _, s := range scores {
		w := s.Weight
		if w <= 0 {
			w = 1.0
		}
		weightedSum += s.Score * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

// ComputeStdDev returns the population standard deviation for a slice of float64 values.
func ComputeStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	return math.Sqrt(variance)
}
