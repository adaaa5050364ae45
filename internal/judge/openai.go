package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/inkproof/galley/internal/validation"
)

// systemPrompt pins the model to machine-readable output.
const systemPrompt = "You are a professional manuscript evaluator. Provide evaluations in JSON format only."

const (
	maxRetries               = 3
	baseRetryDelay           = 2 * time.Second
	defaultRequestsPerMinute = 60
)

// chatModel is just an interface over the slice of the eino chat model
// surface used here.
type chatModel interface {
	// Generate maps to [model.BaseChatModel.Generate]
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Client scores prompts against an OpenAI-compatible chat completion
// endpoint, with rate limiting and retries on transient failures.
type Client struct {
	model      chatModel
	modelID    string
	limiter    *rate.Limiter
	retryDelay time.Duration
}

// NewClient builds a judge backed by the configured endpoint.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing chat model: %w", err)
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaultRequestsPerMinute
	}

	return &Client{
		model:      cm,
		modelID:    cfg.Model,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		retryDelay: baseRetryDelay,
	}, nil
}

// Name returns the configured model identifier.
func (c *Client) Name() string { return c.modelID }

// Score sends the prompt and parses the model's JSON judgment. Rate-limited
// calls and malformed judgments are retried with exponential backoff before
// the error is returned.
func (c *Client) Score(ctx context.Context, req Request) (*Result, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: req.Prompt},
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.model.Generate(ctx, messages)
		if err != nil {
			if !isRateLimited(err) {
				return nil, fmt.Errorf("judging %q: %w", req.Subject, err)
			}
			lastErr = err
			if attempt < maxRetries {
				slog.Debug("judge rate limited, backing off",
					"subject", req.Subject,
					"attempt", attempt+1)
				if err := c.backoff(ctx, attempt); err != nil {
					return nil, err
				}
			}
			continue
		}

		res, err := parseJudgment(resp.Content)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				slog.Debug("judge returned malformed judgment, retrying",
					"subject", req.Subject,
					"attempt", attempt+1)
			}
			continue
		}
		return res, nil
	}
	return nil, lastErr
}

func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.retryDelay
	if delay <= 0 {
		delay = baseRetryDelay
	}
	select {
	case <-time.After(delay * time.Duration(1<<attempt)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "rate limit")
}

// judgment mirrors the JSON contract the prompts ask the model for.
type judgment struct {
	Score      float64  `json:"score"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"areas_for_improvement"`
}

func parseJudgment(content string) (*Result, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if errs := validation.ValidateJudgmentBytes([]byte(clean)); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(errs, "; "))
	}

	var j judgment
	if err := json.Unmarshal([]byte(clean), &j); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &Result{
		Score:      j.Score,
		Summary:    j.Summary,
		Strengths:  j.Strengths,
		Weaknesses: j.Weaknesses,
	}, nil
}
