package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkproof/galley/internal/models"
)

func catScore(cat models.Category, score float64, src models.Source) models.CategoryScore {
	return models.CategoryScore{Category: cat, Score: score, Sourced: src}
}

func critScore(name string, score, weight float64, src models.Source) models.CriterionSourced {
	return models.CriterionSourced{
		CriterionScore: models.CriterionScore{Name: name, Score: score, Weight: weight},
		Sourced:        src,
	}
}

func fiveCategories(score float64, src models.Source) []models.CategoryScore {
	var out []models.CategoryScore
	for _, cat := range models.ScoredCategories() {
		out = append(out, catScore(cat, score, src))
	}
	return out
}

func TestAggregateBothGroups(t *testing.T) {
	cats := fiveCategories(80, models.SourceAI)
	crits := []models.CriterionSourced{
		critScore("Opening Hook", 80, 3, models.SourceAI),
		critScore("Comp Titles", 40, 1, models.SourceAI),
	}

	result, err := Aggregate(cats, crits, []models.Method{models.MethodBasic, models.MethodTemplate})
	require.NoError(t, err)

	// catAvg 80, critAvg (240+40)/4 = 70, composite halfway between.
	assert.InDelta(t, 75.0, result.CompositeScore, 1e-9)
	assert.False(t, result.Degraded)
	require.Len(t, result.CategoryScores, 6)
}

func TestAggregateCategoriesOnly(t *testing.T) {
	cats := []models.CategoryScore{
		catScore(models.CategoryLineEditing, 90, models.SourceAI),
		catScore(models.CategoryPlot, 70, models.SourceAI),
	}

	result, err := Aggregate(cats, nil, []models.Method{models.MethodBasic})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, result.CompositeScore, 1e-9)
	assert.Empty(t, result.CriterionScores)
}

func TestAggregateCriteriaOnly(t *testing.T) {
	crits := []models.CriterionSourced{
		critScore("Voice", 80, 3, models.SourceAI),
		critScore("Stakes", 40, 1, models.SourceAI),
	}

	result, err := Aggregate(nil, crits, []models.Method{models.MethodTemplate})
	require.NoError(t, err)
	assert.InDelta(t, 70.0, result.CompositeScore, 1e-9)

	require.Len(t, result.CategoryScores, 1, "only the derived readiness entry")
	assert.Equal(t, models.CategoryReadiness, result.CategoryScores[0].Category)
	assert.Equal(t, 70.0, result.CategoryScores[0].Score)
}

func TestAggregateEmptyGroups(t *testing.T) {
	_, err := Aggregate(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoMethodSelected)
}

func TestAggregateRequiresMethod(t *testing.T) {
	cats := []models.CategoryScore{
		catScore(models.CategoryPlot, 80, models.SourceAI),
	}

	_, err := Aggregate(cats, nil, nil)
	require.ErrorIs(t, err, ErrNoMethodSelected)
}

func TestAggregateReadinessRounding(t *testing.T) {
	tests := []struct {
		scores []float64
		want   float64
	}{
		{scores: []float64{74, 74, 74, 75, 75}, want: 74},  // 74.4
		{scores: []float64{74, 75, 75, 75, 75}, want: 75},  // 74.8
		{scores: []float64{100, 100, 100, 100, 100}, want: 100},
	}

	for _, tt := range tests {
		var cats []models.CategoryScore
		for i, cat := range models.ScoredCategories() {
			cats = append(cats, catScore(cat, tt.scores[i], models.SourceAI))
		}
		result, err := Aggregate(cats, nil, []models.Method{models.MethodBasic})
		require.NoError(t, err)

		readiness := result.FindCategory(models.CategoryReadiness)
		require.NotNil(t, readiness)
		assert.Equal(t, tt.want, readiness.Score)
	}
}

func TestAggregateReadinessSource(t *testing.T) {
	// All contributors mock: readiness is mock.
	result, err := Aggregate(fiveCategories(80, models.SourceMock), nil, []models.Method{models.MethodBasic})
	require.NoError(t, err)
	assert.Equal(t, models.SourceMock, result.FindCategory(models.CategoryReadiness).Sourced)
	assert.True(t, result.Degraded)

	// A single AI contributor flips the derived entry to AI.
	cats := fiveCategories(80, models.SourceMock)
	cats[2].Sourced = models.SourceAI
	result, err = Aggregate(cats, nil, []models.Method{models.MethodBasic})
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, result.FindCategory(models.CategoryReadiness).Sourced)
	assert.True(t, result.Degraded, "remaining mock scores still degrade the result")

	// AI categories with one mock criterion: degraded, readiness AI.
	crits := []models.CriterionSourced{critScore("Voice", 60, 1, models.SourceMock)}
	result, err = Aggregate(fiveCategories(80, models.SourceAI), crits, []models.Method{models.MethodBasic, models.MethodTemplate})
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, result.FindCategory(models.CategoryReadiness).Sourced)
	assert.True(t, result.Degraded)
}

func TestAggregateReadinessFindings(t *testing.T) {
	cats := fiveCategories(80, models.SourceAI)
	cats[2].Score = 95 // character
	cats[1].Score = 55 // plot

	result, err := Aggregate(cats, nil, []models.Method{models.MethodBasic})
	require.NoError(t, err)

	readiness := result.FindCategory(models.CategoryReadiness)
	require.NotNil(t, readiness)
	require.NotEmpty(t, readiness.Strengths)
	assert.Contains(t, readiness.Strengths[0], "Character Evaluation")
	require.NotEmpty(t, readiness.Weaknesses)
	assert.Contains(t, readiness.Weaknesses[0], "Plot Evaluation")
	assert.NotEmpty(t, readiness.Summary)
}

func TestAggregateNonPositiveWeightDefaults(t *testing.T) {
	crits := []models.CriterionSourced{
		critScore("Voice", 90, 0, models.SourceAI),
		critScore("Stakes", 70, 1, models.SourceAI),
	}

	result, err := Aggregate(nil, crits, []models.Method{models.MethodTemplate})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, result.CompositeScore, 1e-9)
}
