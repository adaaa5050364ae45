package judge

import (
	"context"
	"hash/fnv"

	"github.com/inkproof/galley/internal/models"
)

// Mock is the deterministic stand-in used when no model credential is
// configured or a live call fails. Scores depend only on the subject and the
// excerpt length, so repeated runs over the same manuscript agree exactly.
type Mock struct{}

// NewMock returns the deterministic judge.
func NewMock() *Mock { return &Mock{} }

// Name identifies mock judgments in results and logs.
func (m *Mock) Name() string { return "mock" }

// canned holds the fixed judgment content for a built-in category.
type canned struct {
	score      float64
	summary    string
	strengths  []string
	weaknesses []string
}

var cannedJudgments = map[string]canned{
	"line-editing": {
		score:      85,
		summary:    "Strong prose with excellent clarity. Minor grammar inconsistencies noted in dialogue sections.",
		strengths:  []string{"Clear writing style", "Good sentence structure"},
		weaknesses: []string{"Dialogue punctuation", "Consistent tense usage"},
	},
	"plot": {
		score:      78,
		summary:    "Well-structured narrative with good pacing. The middle section could benefit from increased tension.",
		strengths:  []string{"Clear story arc", "Good pacing"},
		weaknesses: []string{"Middle section tension", "Subplot integration"},
	},
	"character": {
		score:      92,
		summary:    "Exceptional character development with clear motivations and authentic dialogue throughout.",
		strengths:  []string{"Deep character development", "Authentic dialogue"},
		weaknesses: []string{"Minor character consistency"},
	},
	"flow": {
		score:      80,
		summary:    "Smooth transitions between scenes. Some chapters end abruptly but overall flow is engaging.",
		strengths:  []string{"Good scene transitions", "Engaging flow"},
		weaknesses: []string{"Chapter endings", "Pacing consistency"},
	},
	"worldbuilding": {
		score:      88,
		summary:    "Rich, immersive setting with consistent internal logic. Great attention to environmental details.",
		strengths:  []string{"Immersive setting", "Consistent world logic"},
		weaknesses: []string{"More background details"},
	},
}

// Score returns a fixed judgment for the subject, nudged by excerpt length
// and clamped to [0, 100]. Rubric criteria without canned content get a
// baseline derived from a hash of the criterion name.
func (m *Mock) Score(_ context.Context, req Request) (*Result, error) {
	if c, ok := cannedJudgments[req.Subject]; ok {
		return &Result{
			Score:      models.ClampScore(c.score + lengthAdjustment(len(req.Excerpt))),
			Summary:    c.summary,
			Strengths:  c.strengths,
			Weaknesses: c.weaknesses,
		}, nil
	}

	h := fnv.New32a()
	h.Write([]byte(req.Subject))
	base := 65 + float64(h.Sum32()%26)

	return &Result{
		Score:      models.ClampScore(base + lengthAdjustment(len(req.Excerpt))),
		Summary:    "Solid execution against this criterion with room for targeted revision.",
		Strengths:  []string{"Consistent handling throughout"},
		Weaknesses: []string{"Depth could be extended"},
	}, nil
}

// lengthAdjustment nudges the baseline by manuscript size so a sample
// chapter and a full draft do not score identically.
func lengthAdjustment(chars int) float64 {
	switch {
	case chars < 2000:
		return -4
	case chars < 10000:
		return -1
	case chars < 40000:
		return 1
	default:
		return 2
	}
}
