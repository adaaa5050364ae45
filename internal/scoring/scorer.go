package scoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkproof/galley/internal/criteria"
	"github.com/inkproof/galley/internal/judge"
	"github.com/inkproof/galley/internal/models"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 30 * time.Second

// Scorer runs category and criterion judgments. A model failure on any
// single call produces a deterministic mock judgment for that call; only
// cancellation of the whole run surfaces as an error.
type Scorer struct {
	judge    judge.Judge
	fallback *judge.Mock
	timeout  time.Duration
	maxChars int
}

// ScorerOption adjusts scorer behavior.
type ScorerOption func(*Scorer)

// WithTimeout overrides the per-call model timeout.
func WithTimeout(d time.Duration) ScorerOption {
	return func(s *Scorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxChars overrides how much manuscript text is evaluated.
func WithMaxChars(n int) ScorerOption {
	return func(s *Scorer) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// NewScorer builds a scorer around the given judge.
func NewScorer(j judge.Judge, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		judge:    j,
		fallback: judge.NewMock(),
		timeout:  DefaultTimeout,
		maxChars: DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MockOnly reports whether every judgment will come from the offline judge.
func (s *Scorer) MockOnly() bool {
	if s.judge == nil {
		return true
	}
	_, ok := s.judge.(*judge.Mock)
	return ok
}

// JudgeName identifies the judging backend for result metadata.
func (s *Scorer) JudgeName() string {
	if s.judge == nil {
		return s.fallback.Name()
	}
	return s.judge.Name()
}

// Timeout returns the per-call model timeout.
func (s *Scorer) Timeout() time.Duration { return s.timeout }

// ScoreCategory judges one built-in category against the manuscript text.
func (s *Scorer) ScoreCategory(ctx context.Context, text string, cat models.Category) (models.CategoryScore, error) {
	excerpt := Truncate(text, s.maxChars)
	req := judge.Request{
		Subject: string(cat),
		Prompt:  CategoryPrompt(cat, excerpt),
		Excerpt: excerpt,
	}

	res, source, err := s.score(ctx, req)
	if err != nil {
		return models.CategoryScore{}, err
	}

	return models.CategoryScore{
		Category:   cat,
		Score:      models.ClampScore(res.Score),
		Summary:    res.Summary,
		Strengths:  res.Strengths,
		Weaknesses: res.Weaknesses,
		Sourced:    source,
	}, nil
}

// ScoreCriterion judges one rubric criterion against the manuscript text.
func (s *Scorer) ScoreCriterion(ctx context.Context, text string, c criteria.Criterion) (models.CriterionSourced, error) {
	excerpt := Truncate(text, s.maxChars)
	req := judge.Request{
		Subject: c.Name,
		Prompt:  CriterionPrompt(c, excerpt),
		Excerpt: excerpt,
	}

	res, source, err := s.score(ctx, req)
	if err != nil {
		return models.CriterionSourced{}, err
	}

	return models.CriterionSourced{
		CriterionScore: models.CriterionScore{
			Name:      c.Name,
			Score:     models.ClampScore(res.Score),
			Rationale: res.Summary,
			Weight:    c.Weight,
		},
		Sourced: source,
	}, nil
}

func (s *Scorer) score(ctx context.Context, req judge.Request) (*judge.Result, models.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	if s.MockOnly() {
		res, err := s.fallback.Score(ctx, req)
		if err != nil {
			return nil, "", err
		}
		return res, models.SourceMock, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.judge.Score(callCtx, req)
	if err == nil {
		return res, models.SourceAI, nil
	}

	// A canceled run is not a model failure.
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}

	slog.Warn("model judgment failed, using offline fallback",
		"subject", req.Subject,
		"judge", s.judge.Name(),
		"error", err)

	fallback, ferr := s.fallback.Score(ctx, req)
	if ferr != nil {
		return nil, "", ferr
	}
	return fallback, models.SourceMock, nil
}
