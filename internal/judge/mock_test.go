package judge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockDeterminism(t *testing.T) {
	m := NewMock()
	req := Request{
		Subject: "plot",
		Prompt:  "Evaluate the plot.",
		Excerpt: strings.Repeat("x", 5000),
	}

	first, err := m.Score(context.Background(), req)
	require.NoError(t, err)

	second, err := m.Score(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first, second, "same input must produce the same judgment")
}

func TestMockKnownCategories(t *testing.T) {
	m := NewMock()
	excerpt := strings.Repeat("a", 5000)

	want := map[string]float64{
		"line-editing":  84,
		"plot":          77,
		"character":     91,
		"flow":          79,
		"worldbuilding": 87,
	}

	for subject, expected := range want {
		res, err := m.Score(context.Background(), Request{Subject: subject, Excerpt: excerpt})
		require.NoError(t, err)
		require.Equal(t, expected, res.Score, "subject %s", subject)
		require.NotEmpty(t, res.Summary)
		require.NotEmpty(t, res.Strengths)
		require.NotEmpty(t, res.Weaknesses)
	}
}

func TestMockCriterionBand(t *testing.T) {
	m := NewMock()

	for _, name := range []string{"Dialogue Authenticity", "Opening Hook", "Thematic Consistency"} {
		res, err := m.Score(context.Background(), Request{
			Subject: name,
			Excerpt: strings.Repeat("b", 1000),
		})
		require.NoError(t, err)
		// 65..90 baseline, minus the short-excerpt adjustment.
		require.GreaterOrEqual(t, res.Score, 61.0, "criterion %s", name)
		require.LessOrEqual(t, res.Score, 92.0, "criterion %s", name)
		require.NotEmpty(t, res.Summary)
	}
}

func TestMockScoreBounds(t *testing.T) {
	m := NewMock()
	lengths := []int{0, 1500, 5000, 20000, 100000}

	for subject := range cannedJudgments {
		for _, n := range lengths {
			res, err := m.Score(context.Background(), Request{
				Subject: subject,
				Excerpt: strings.Repeat("c", n),
			})
			require.NoError(t, err)
			require.GreaterOrEqual(t, res.Score, 0.0)
			require.LessOrEqual(t, res.Score, 100.0)
		}
	}
}

func TestMockName(t *testing.T) {
	require.Equal(t, "mock", NewMock().Name())
}
