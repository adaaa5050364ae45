// Package config assembles the runtime configuration for an evaluation run
// from project-level defaults, command-line overrides, and the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/inkproof/galley/internal/judge"
	"github.com/inkproof/galley/internal/projectconfig"
)

// DefaultCacheDir is where judgment cache files live unless overridden.
const DefaultCacheDir = ".galley-cache"

// Environment variables consulted for the model credential, in priority
// order. Credentials never come from galley.yaml.
const (
	EnvAPIKey         = "GALLEY_OPENAI_API_KEY"
	EnvAPIKeyFallback = "OPENAI_API_KEY"
)

// RunConfig is the resolved configuration for a single evaluation run.
// Zero-value overrides fall through to the project configuration, so a
// RunConfig built with no options behaves exactly like galley.yaml says.
type RunConfig struct {
	project *projectconfig.ProjectConfig

	model             string
	baseURL           string
	timeout           time.Duration
	workers           int
	maxChars          int
	requestsPerMinute int
	cacheDisabled     bool
	cacheDir          string
	verbose           bool
}

// Option mutates a RunConfig during construction.
type Option func(*RunConfig)

// WithModel overrides the chat model identifier.
func WithModel(model string) Option {
	return func(c *RunConfig) { c.model = model }
}

// WithBaseURL overrides the OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *RunConfig) { c.baseURL = url }
}

// WithTimeout overrides the per-call scoring timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *RunConfig) { c.timeout = d }
}

// WithWorkers overrides the scoring worker bound.
func WithWorkers(n int) Option {
	return func(c *RunConfig) { c.workers = n }
}

// WithMaxChars overrides the manuscript truncation budget.
func WithMaxChars(n int) Option {
	return func(c *RunConfig) { c.maxChars = n }
}

// WithRequestsPerMinute overrides the model call rate limit.
func WithRequestsPerMinute(n int) Option {
	return func(c *RunConfig) { c.requestsPerMinute = n }
}

// WithCacheDisabled turns the judgment cache off.
func WithCacheDisabled(disabled bool) Option {
	return func(c *RunConfig) { c.cacheDisabled = disabled }
}

// WithCacheDir overrides the judgment cache directory.
func WithCacheDir(dir string) Option {
	return func(c *RunConfig) { c.cacheDir = dir }
}

// WithVerbose enables per-score progress output.
func WithVerbose(verbose bool) Option {
	return func(c *RunConfig) { c.verbose = verbose }
}

// NewRunConfig builds a RunConfig on top of the given project configuration.
// A nil project means "use the built-in defaults".
func NewRunConfig(project *projectconfig.ProjectConfig, opts ...Option) *RunConfig {
	if project == nil {
		project = projectconfig.New()
	}
	cfg := &RunConfig{project: project}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Project returns the underlying project configuration.
func (c *RunConfig) Project() *projectconfig.ProjectConfig { return c.project }

// Model returns the chat model identifier.
func (c *RunConfig) Model() string {
	if c.model != "" {
		return c.model
	}
	return c.project.Model
}

// BaseURL returns the OpenAI-compatible endpoint base URL.
func (c *RunConfig) BaseURL() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return c.project.BaseURL
}

// Timeout returns the per-call scoring timeout.
func (c *RunConfig) Timeout() time.Duration {
	if c.timeout > 0 {
		return c.timeout
	}
	return time.Duration(c.project.TimeoutSeconds) * time.Second
}

// Workers returns the scoring worker bound.
func (c *RunConfig) Workers() int {
	if c.workers > 0 {
		return c.workers
	}
	return c.project.MaxWorkers
}

// MaxChars returns the manuscript truncation budget.
func (c *RunConfig) MaxChars() int {
	if c.maxChars > 0 {
		return c.maxChars
	}
	return c.project.MaxChars
}

// RequestsPerMinute returns the model call rate limit.
func (c *RunConfig) RequestsPerMinute() int {
	if c.requestsPerMinute > 0 {
		return c.requestsPerMinute
	}
	return c.project.RequestsPerMinute
}

// CacheEnabled reports whether judgments should be cached on disk.
func (c *RunConfig) CacheEnabled() bool { return !c.cacheDisabled }

// CacheDir returns the judgment cache directory.
func (c *RunConfig) CacheDir() string {
	if c.cacheDir != "" {
		return c.cacheDir
	}
	return DefaultCacheDir
}

// Verbose reports whether per-score progress output is enabled.
func (c *RunConfig) Verbose() bool { return c.verbose }

// APIKey returns the model credential from the environment, or "" when none
// is set.
func (c *RunConfig) APIKey() string { return APIKeyFromEnv() }

// JudgeConfig assembles the judge construction config for this run.
func (c *RunConfig) JudgeConfig() judge.Config {
	return judge.Config{
		BaseURL:           c.BaseURL(),
		APIKey:            c.APIKey(),
		Model:             c.Model(),
		RequestsPerMinute: c.RequestsPerMinute(),
	}
}

// MockMode reports whether this run will score with the deterministic mock
// instead of a live model.
func (c *RunConfig) MockMode() bool { return !c.JudgeConfig().HasCredential() }

// LoadDotEnv loads a .env file from the working directory when one exists.
// Missing files are fine; credentials then come from the process environment.
func LoadDotEnv() { _ = godotenv.Load() }

// APIKeyFromEnv returns the first model credential found in the environment.
func APIKeyFromEnv() string {
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v
	}
	return os.Getenv(EnvAPIKeyFallback)
}
