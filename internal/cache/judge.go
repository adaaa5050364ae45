package cache

import (
	"context"
	"log/slog"

	"github.com/inkproof/galley/internal/judge"
)

// cachingJudge wraps a judge and reuses stored judgments by cache key.
type cachingJudge struct {
	inner judge.Judge
	cache *Cache
}

// WrapJudge returns a judge that consults the cache before calling through.
// Mock judgments are deterministic and free, so the mock judge is returned
// unwrapped and never cached.
func WrapJudge(inner judge.Judge, c *Cache) judge.Judge {
	if c == nil {
		return inner
	}
	if _, isMock := inner.(*judge.Mock); isMock {
		return inner
	}
	return &cachingJudge{inner: inner, cache: c}
}

func (j *cachingJudge) Name() string { return j.inner.Name() }

func (j *cachingJudge) Score(ctx context.Context, req judge.Request) (*judge.Result, error) {
	key, err := Key(j.inner.Name(), req)
	if err == nil {
		if res, ok := j.cache.Get(key); ok {
			slog.Debug("judgment cache hit", "subject", req.Subject)
			return res, nil
		}
	}

	res, err := j.inner.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if err := j.cache.Put(key, res); err != nil {
			slog.Warn("failed to store judgment in cache", "subject", req.Subject, "error", err)
		}
	}
	return res, nil
}
