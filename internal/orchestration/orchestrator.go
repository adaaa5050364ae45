// Package orchestration sequences one manuscript evaluation end to end:
// extract the text, run every requested judgment through a bounded worker
// pool, then aggregate the scores into a single result.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkproof/galley/internal/criteria"
	"github.com/inkproof/galley/internal/manuscript"
	"github.com/inkproof/galley/internal/models"
	"github.com/inkproof/galley/internal/scoring"
)

// Worker pool bounds. Staying under eight concurrent model calls keeps the
// evaluator clear of upstream rate limits.
const (
	defaultWorkers = 4
	maxWorkers     = 8
)

var (
	// ErrNoMethodSelected rejects requests that name no evaluation method.
	ErrNoMethodSelected = errors.New("no evaluation method selected")

	// ErrTemplateRequired rejects template evaluations without a loaded
	// criteria set.
	ErrTemplateRequired = errors.New("template method requires a criteria set")
)

// Orchestrator drives manuscript evaluations.
type Orchestrator struct {
	scorer  *scoring.Scorer
	workers int

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventEvaluationStart    EventType = "evaluation_start"
	EventEvaluationComplete EventType = "evaluation_complete"
	EventScoreStart         EventType = "score_start"
	EventScoreComplete      EventType = "score_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType  EventType
	Subject    string
	Num        int
	Total      int
	Score      float64
	Source     models.Source
	DurationMs int64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the worker pool size, capped at maxWorkers.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// New creates an orchestrator around the given scorer.
func New(scorer *scoring.Scorer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		scorer:    scorer,
		workers:   defaultWorkers,
		listeners: []ProgressListener{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers > maxWorkers {
		o.workers = maxWorkers
	}
	return o
}

// OnProgress registers a progress listener
func (o *Orchestrator) OnProgress(listener ProgressListener) {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.listeners = append(o.listeners, listener)
}

func (o *Orchestrator) notifyProgress(event ProgressEvent) {
	o.progressMu.Lock()
	listeners := make([]ProgressListener, len(o.listeners))
	copy(listeners, o.listeners)
	o.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Request describes one evaluation job.
type Request struct {
	// Document is the raw manuscript file.
	Document []byte

	// Filename is used for format detection when Format is empty, and
	// recorded in the result metadata.
	Filename string

	// Format declares the document format. Empty means detect from
	// Filename.
	Format manuscript.Format

	// Methods selects the evaluation methods to run. At least one is
	// required; duplicates are ignored.
	Methods []models.Method

	// Criteria is the loaded template for MethodTemplate evaluations.
	Criteria *criteria.CriteriaSet
}

func (r *Request) hasMethod(m models.Method) bool {
	for _, v := range r.Methods {
		if v == m {
			return true
		}
	}
	return false
}

func (r *Request) validate() error {
	if len(r.Methods) == 0 {
		return ErrNoMethodSelected
	}
	for _, m := range r.Methods {
		if m != models.MethodBasic && m != models.MethodTemplate {
			return fmt.Errorf("unknown evaluation method %q", m)
		}
	}
	if r.hasMethod(models.MethodTemplate) && (r.Criteria == nil || r.Criteria.Len() == 0) {
		return ErrTemplateRequired
	}
	return nil
}

// scoreJob is one unit of work for the pool: either a built-in category or
// a single template criterion.
type scoreJob struct {
	subject   string
	category  models.Category
	criterion *criteria.Criterion
}

// scoreResult carries the outcome of one scoreJob. err is only set for run
// cancellation; judgment failures degrade inside the scorer instead.
type scoreResult struct {
	category  *models.CategoryScore
	criterion *models.CriterionSourced
	err       error
}

// Evaluate runs one evaluation request and returns the merged result.
func (o *Orchestrator) Evaluate(ctx context.Context, req Request) (*models.EvaluationResult, error) {
	start := time.Now()

	if err := req.validate(); err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		detected, err := manuscript.DetectFormat(req.Filename)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	text, err := manuscript.Extract(req.Document, format)
	if err != nil {
		return nil, fmt.Errorf("extracting manuscript text: %w", err)
	}

	jobs := buildJobs(req)

	o.notifyProgress(ProgressEvent{
		EventType: EventEvaluationStart,
		Total:     len(jobs),
	})

	results := o.runConcurrent(ctx, text.Content, jobs)

	var categoryScores []models.CategoryScore
	var criterionScores []models.CriterionSourced
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.category != nil {
			categoryScores = append(categoryScores, *res.category)
		}
		if res.criterion != nil {
			criterionScores = append(criterionScores, *res.criterion)
		}
	}

	methods := make([]models.Method, 0, 2)
	if req.hasMethod(models.MethodBasic) {
		methods = append(methods, models.MethodBasic)
	}
	if req.hasMethod(models.MethodTemplate) {
		methods = append(methods, models.MethodTemplate)
	}

	result, err := Aggregate(categoryScores, criterionScores, methods)
	if err != nil {
		return nil, err
	}

	result.EvalID = uuid.NewString()
	result.Timestamp = time.Now().UTC()
	result.Manuscript = models.ManuscriptInfo{
		Filename:  req.Filename,
		Format:    string(format),
		CharCount: text.CharCount,
	}
	result.Setup = models.ResultSetup{
		ModelID:    o.scorer.JudgeName(),
		TimeoutSec: int(o.scorer.Timeout() / time.Second),
		Workers:    o.workers,
		MockMode:   o.scorer.MockOnly(),
	}

	o.notifyProgress(ProgressEvent{
		EventType:  EventEvaluationComplete,
		Score:      result.CompositeScore,
		DurationMs: time.Since(start).Milliseconds(),
	})

	return result, nil
}

// buildJobs lists every judgment the request calls for: the five fixed
// categories when Basic is selected, then one job per template criterion.
func buildJobs(req Request) []scoreJob {
	var jobs []scoreJob
	if req.hasMethod(models.MethodBasic) {
		for _, cat := range models.ScoredCategories() {
			jobs = append(jobs, scoreJob{subject: string(cat), category: cat})
		}
	}
	if req.hasMethod(models.MethodTemplate) && req.Criteria != nil {
		for i := range req.Criteria.Criteria {
			c := &req.Criteria.Criteria[i]
			jobs = append(jobs, scoreJob{subject: c.Name, criterion: c})
		}
	}
	return jobs
}

// runConcurrent fans the jobs out over the bounded worker pool and collects
// outcomes back into job order. A canceled context abandons jobs that have
// not started; jobs already running complete and are discarded by Evaluate.
func (o *Orchestrator) runConcurrent(ctx context.Context, text string, jobs []scoreJob) []scoreResult {
	workers := o.workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	type result struct {
		index   int
		outcome scoreResult
	}

	resultChan := make(chan result, len(jobs))
	semaphore := make(chan struct{}, workers)

	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job scoreJob) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				resultChan <- result{index: idx, outcome: scoreResult{err: err}}
				return
			}

			o.notifyProgress(ProgressEvent{
				EventType: EventScoreStart,
				Subject:   job.subject,
				Num:       idx + 1,
				Total:     len(jobs),
			})

			jobStart := time.Now()
			outcome := o.runJob(ctx, text, job)
			resultChan <- result{index: idx, outcome: outcome}

			event := ProgressEvent{
				EventType:  EventScoreComplete,
				Subject:    job.subject,
				Num:        idx + 1,
				Total:      len(jobs),
				DurationMs: time.Since(jobStart).Milliseconds(),
			}
			switch {
			case outcome.category != nil:
				event.Score = outcome.category.Score
				event.Source = outcome.category.Sourced
			case outcome.criterion != nil:
				event.Score = outcome.criterion.Score
				event.Source = outcome.criterion.Sourced
			}
			o.notifyProgress(event)
		}(i, job)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results
	results := make([]scoreResult, len(jobs))
	for res := range resultChan {
		results[res.index] = res.outcome
	}

	return results
}

func (o *Orchestrator) runJob(ctx context.Context, text string, job scoreJob) scoreResult {
	if job.criterion != nil {
		cs, err := o.scorer.ScoreCriterion(ctx, text, *job.criterion)
		if err != nil {
			return scoreResult{err: err}
		}
		return scoreResult{criterion: &cs}
	}

	cat, err := o.scorer.ScoreCategory(ctx, text, job.category)
	if err != nil {
		return scoreResult{err: err}
	}
	return scoreResult{category: &cat}
}
