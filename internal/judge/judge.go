// Package judge scores manuscript text against a single prompt. The live
// implementation calls an OpenAI-compatible chat model; a deterministic
// in-process stand-in covers runs without a usable credential.
package judge

import (
	"context"
	"errors"
	"strings"
)

// ErrMalformedResponse reports that the model replied with something that
// could not be read as a judgment, including scores outside [0, 100].
var ErrMalformedResponse = errors.New("model response was not a valid judgment")

// Request is one scoring call.
type Request struct {
	// Subject identifies what is being judged: a built-in category slug
	// such as "plot", or the name of a rubric criterion.
	Subject string

	// Prompt is the full instruction sent to the model.
	Prompt string

	// Excerpt is the manuscript text under evaluation, already truncated
	// by the caller.
	Excerpt string
}

// Result is a single judgment.
type Result struct {
	Score      float64
	Summary    string
	Strengths  []string
	Weaknesses []string
}

// Judge scores one request at a time. Implementations must be safe for
// concurrent use.
type Judge interface {
	// Score evaluates the request and returns a judgment, honoring
	// ctx for cancellation and deadlines.
	Score(ctx context.Context, req Request) (*Result, error)

	// Name identifies the judge in results and logs.
	Name() string
}

// Config selects and configures the judge implementation.
type Config struct {
	// BaseURL is the OpenAI-compatible endpoint. Empty means the
	// provider default.
	BaseURL string

	// APIKey authenticates against the endpoint. Empty or placeholder
	// values select the mock judge.
	APIKey string

	// Model is the chat model identifier.
	Model string

	// RequestsPerMinute caps the call rate to the endpoint.
	RequestsPerMinute int
}

// placeholderKeys ship in sample env files and do not authenticate.
var placeholderKeys = map[string]bool{
	"placeholder-openai-key":   true,
	"your-openai-api-key-here": true,
}

// HasCredential reports whether the config carries a usable API key.
func (c Config) HasCredential() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && !placeholderKeys[key]
}

// New returns a model-backed judge when a usable credential is configured,
// and the deterministic mock otherwise.
func New(ctx context.Context, cfg Config) (Judge, error) {
	if !cfg.HasCredential() {
		return NewMock(), nil
	}
	return NewClient(ctx, cfg)
}
