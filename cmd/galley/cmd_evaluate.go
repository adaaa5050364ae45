package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/inkproof/galley/internal/cache"
	"github.com/inkproof/galley/internal/config"
	"github.com/inkproof/galley/internal/criteria"
	"github.com/inkproof/galley/internal/judge"
	"github.com/inkproof/galley/internal/manuscript"
	"github.com/inkproof/galley/internal/models"
	"github.com/inkproof/galley/internal/orchestration"
	"github.com/inkproof/galley/internal/projectconfig"
	"github.com/inkproof/galley/internal/reporting"
	"github.com/inkproof/galley/internal/scoring"
	"github.com/inkproof/galley/internal/spinner"
	"github.com/inkproof/galley/internal/storage"
)

// blobPrefix marks a manuscript argument resolved through the artifact
// store instead of the local filesystem.
const blobPrefix = "blob://"

type evaluateOptions struct {
	format       string
	methods      []string
	templatePath string
	outputPath   string
	reportPath   string
	htmlPath     string
	storeKey     string
	model        string
	baseURL      string
	workers      int
	parallel     int
	timeout      time.Duration
	enableCache  bool
	disableCache bool
	cacheDir     string
	interpret    bool
	verbose      bool
}

func newEvaluateCommand() *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate <manuscript...>",
		Short: "Evaluate one or more manuscripts",
		Long: `Evaluate manuscripts against the six built-in editorial categories and,
optionally, against a user-supplied scoring template.

Manuscripts are PDF or DOCX files; arguments prefixed blob:// are retrieved
through the configured storage backend. Without a usable model credential in
the environment every score comes from the deterministic offline fallback and
the result is marked degraded (exit code 1).

Multiple manuscript arguments run as a batch and finish with a comparison
table.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluateCommandE(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Manuscript format: pdf or docx (default: inferred from extension)")
	cmd.Flags().StringArrayVar(&opts.methods, "method", nil, "Evaluation method: basic or template (can be repeated, default: basic)")
	cmd.Flags().StringVar(&opts.templatePath, "template", "", "Scoring template spreadsheet (required with --method template)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output JSON file for the result")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a markdown report to this file")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "Write an HTML report to this file")
	cmd.Flags().StringVar(&opts.storeKey, "store", "", "Persist the result under this storage key")
	cmd.Flags().StringVar(&opts.model, "model", "", "Chat model to score with (overrides galley.yaml)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "OpenAI-compatible endpoint (overrides galley.yaml)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent scoring calls (default from galley.yaml)")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "Manuscripts evaluated concurrently in batch mode")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-call scoring timeout (default from galley.yaml)")
	cmd.Flags().BoolVar(&opts.enableCache, "cache", false, "Enable judgment caching (default: false)")
	cmd.Flags().BoolVar(&opts.disableCache, "no-cache", false, "Disable judgment caching (default)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", config.DefaultCacheDir, "Cache directory for stored judgments")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation of the result")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output with per-score progress")

	return cmd
}

func evaluateCommandE(cmd *cobra.Command, args []string, opts *evaluateOptions) error {
	config.LoadDotEnv()

	project, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	cfgOpts := []config.Option{
		config.WithVerbose(opts.verbose),
		config.WithCacheDisabled(!opts.enableCache || opts.disableCache),
		config.WithCacheDir(opts.cacheDir),
	}
	if opts.model != "" {
		cfgOpts = append(cfgOpts, config.WithModel(opts.model))
	}
	if opts.baseURL != "" {
		cfgOpts = append(cfgOpts, config.WithBaseURL(opts.baseURL))
	}
	if opts.timeout > 0 {
		cfgOpts = append(cfgOpts, config.WithTimeout(opts.timeout))
	}
	if opts.workers > 0 {
		cfgOpts = append(cfgOpts, config.WithWorkers(opts.workers))
	}
	runCfg := config.NewRunConfig(project, cfgOpts...)

	methods, err := parseMethods(opts.methods)
	if err != nil {
		return err
	}

	var criteriaSet *criteria.CriteriaSet
	if hasMethod(methods, models.MethodTemplate) {
		if opts.templatePath == "" {
			return fmt.Errorf("--method template requires --template")
		}
		criteriaSet, err = criteria.LoadFile(opts.templatePath)
		if err != nil {
			return fmt.Errorf("loading template: %w", err)
		}
	}

	var format manuscript.Format
	if opts.format != "" {
		format, err = manuscript.ParseFormat(opts.format)
		if err != nil {
			return err
		}
	}

	// The storage backend is only constructed when something needs it.
	var store storage.Store
	needStore := opts.storeKey != ""
	for _, arg := range args {
		if strings.HasPrefix(arg, blobPrefix) {
			needStore = true
		}
	}
	if needStore {
		store, err = storage.Create(storage.Backend(project.Storage.Backend), project.Storage.Options)
		if err != nil {
			return fmt.Errorf("configuring storage: %w", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := judge.New(ctx, runCfg.JudgeConfig())
	if err != nil {
		return fmt.Errorf("building judge: %w", err)
	}
	if runCfg.CacheEnabled() {
		absCacheDir, err := filepath.Abs(runCfg.CacheDir())
		if err != nil {
			return fmt.Errorf("resolving cache directory: %w", err)
		}
		j = cache.WrapJudge(j, cache.New(absCacheDir))
	}

	scorer := scoring.NewScorer(j,
		scoring.WithTimeout(runCfg.Timeout()),
		scoring.WithMaxChars(runCfg.MaxChars()),
	)
	orch := orchestration.New(scorer, orchestration.WithWorkers(runCfg.Workers()))

	if runCfg.MockMode() {
		fmt.Fprintln(cmd.OutOrStdout(), "No model credential found; scoring with the deterministic fallback.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Model: %s\n", runCfg.Model())
	}

	if len(args) == 1 {
		return evaluateSingle(ctx, cmd, orch, store, args[0], format, methods, criteriaSet, opts)
	}

	if opts.storeKey != "" {
		return fmt.Errorf("--store requires a single manuscript")
	}
	return evaluateBatch(ctx, cmd, orch, store, args, format, methods, criteriaSet, opts)
}

func evaluateSingle(ctx context.Context, cmd *cobra.Command, orch *orchestration.Orchestrator, store storage.Store,
	arg string, format manuscript.Format, methods []models.Method, criteriaSet *criteria.CriteriaSet, opts *evaluateOptions) error {

	var stopSpinner func()
	if opts.verbose {
		orch.OnProgress(verboseProgressListener(cmd.OutOrStdout()))
	} else {
		update, stop := spinner.Start(cmd.ErrOrStderr(), "Evaluating manuscript...")
		stopSpinner = stop
		orch.OnProgress(func(event orchestration.ProgressEvent) {
			if event.EventType == orchestration.EventScoreComplete {
				update(fmt.Sprintf("Scored %s (%d/%d)", event.Subject, event.Num, event.Total))
			}
		})
	}

	result, err := evaluateOne(ctx, orch, store, arg, format, methods, criteriaSet)
	if stopSpinner != nil {
		stopSpinner()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResultSummary(out, result)

	if opts.interpret {
		fmt.Fprintln(out)
		fmt.Fprint(out, reporting.FormatSummaryReport(result))
	}

	if err := writeOutputs(ctx, cmd, store, result, opts); err != nil {
		return err
	}

	if result.Degraded {
		return &DegradedError{
			Message: fmt.Sprintf("evaluation completed with fallback scores (composite %.1f)", result.CompositeScore),
		}
	}
	return nil
}

func evaluateBatch(ctx context.Context, cmd *cobra.Command, orch *orchestration.Orchestrator, store storage.Store,
	args []string, format manuscript.Format, methods []models.Method, criteriaSet *criteria.CriteriaSet, opts *evaluateOptions) error {

	// Goroutines below share this writer, so their lines go through a lock.
	out := &syncWriter{w: cmd.OutOrStdout()}
	results := make([]*models.EvaluationResult, len(args))

	limit := opts.parallel
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, arg := range args {
		g.Go(func() error {
			result, err := evaluateOne(gctx, orch, store, arg, format, methods, criteriaSet)
			if err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
			results[i] = result
			fmt.Fprintf(out, "✓ %s  composite %.1f\n", arg, result.CompositeScore)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, reporting.ComparisonTable(results))

	// Save per-manuscript results when --output is specified in batch mode
	if opts.outputPath != "" {
		ext := filepath.Ext(opts.outputPath)
		base := strings.TrimSuffix(opts.outputPath, ext)
		used := make(map[string]bool, len(results))
		for i, result := range results {
			name := sanitizeFileName(strings.TrimSuffix(filepath.Base(args[i]), filepath.Ext(args[i])))
			// Same basename in different directories must not clobber each other.
			if used[name] {
				name = fmt.Sprintf("%s_%d", name, i+1)
			}
			used[name] = true
			perFilePath := fmt.Sprintf("%s_%s%s", base, name, ext)
			if err := saveResult(result, perFilePath); err != nil {
				return fmt.Errorf("failed to save output for %s: %w", args[i], err)
			}
			fmt.Fprintf(out, "Result saved to: %s\n", perFilePath)
		}
	}

	degraded := false
	for _, result := range results {
		if result.Degraded {
			degraded = true
		}
	}
	if degraded {
		return &DegradedError{
			Message: fmt.Sprintf("batch completed with fallback scores in %d manuscript(s)", countDegraded(results)),
		}
	}
	return nil
}

func evaluateOne(ctx context.Context, orch *orchestration.Orchestrator, store storage.Store,
	arg string, format manuscript.Format, methods []models.Method, criteriaSet *criteria.CriteriaSet) (*models.EvaluationResult, error) {

	data, name, err := readManuscript(ctx, store, arg)
	if err != nil {
		return nil, err
	}

	return orch.Evaluate(ctx, orchestration.Request{
		Document: data,
		Filename: name,
		Format:   format,
		Methods:  methods,
		Criteria: criteriaSet,
	})
}

// readManuscript fetches the manuscript bytes from the filesystem, or from
// the artifact store for blob:// arguments.
func readManuscript(ctx context.Context, store storage.Store, arg string) ([]byte, string, error) {
	if key, ok := strings.CutPrefix(arg, blobPrefix); ok {
		if store == nil {
			return nil, "", fmt.Errorf("no storage backend configured for %s", arg)
		}
		data, err := store.Retrieve(ctx, key)
		if err != nil {
			return nil, "", fmt.Errorf("retrieving %s: %w", arg, err)
		}
		return data, path.Base(key), nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, "", fmt.Errorf("reading manuscript: %w", err)
	}
	return data, filepath.Base(arg), nil
}

func writeOutputs(ctx context.Context, cmd *cobra.Command, store storage.Store, result *models.EvaluationResult, opts *evaluateOptions) error {
	out := cmd.OutOrStdout()

	if opts.outputPath != "" {
		if err := saveResult(result, opts.outputPath); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Fprintf(out, "Result saved to: %s\n", opts.outputPath)
	}

	if opts.reportPath != "" {
		if err := os.WriteFile(opts.reportPath, []byte(reporting.Markdown(result)), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to: %s\n", opts.reportPath)
	}

	if opts.htmlPath != "" {
		html, err := reporting.HTML(result)
		if err != nil {
			return fmt.Errorf("rendering HTML report: %w", err)
		}
		if err := os.WriteFile(opts.htmlPath, html, 0o644); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		fmt.Fprintf(out, "HTML report written to: %s\n", opts.htmlPath)
	}

	if opts.storeKey != "" {
		if err := storage.WriteResult(ctx, store, opts.storeKey, result); err != nil {
			return fmt.Errorf("storing result: %w", err)
		}
		fmt.Fprintf(out, "Result stored under: %s\n", opts.storeKey)
	}

	return nil
}

func parseMethods(raw []string) ([]models.Method, error) {
	if len(raw) == 0 {
		return []models.Method{models.MethodBasic}, nil
	}

	var methods []models.Method
	for _, r := range raw {
		m := models.Method(strings.ToLower(strings.TrimSpace(r)))
		if m != models.MethodBasic && m != models.MethodTemplate {
			return nil, fmt.Errorf("unknown evaluation method %q (supported: basic, template)", r)
		}
		if !hasMethod(methods, m) {
			methods = append(methods, m)
		}
	}
	return methods, nil
}

func hasMethod(methods []models.Method, m models.Method) bool {
	for _, v := range methods {
		if v == m {
			return true
		}
	}
	return false
}

func countDegraded(results []*models.EvaluationResult) int {
	n := 0
	for _, r := range results {
		if r != nil && r.Degraded {
			n++
		}
	}
	return n
}

// sanitizeFileName replaces characters that are invalid in filenames.
func sanitizeFileName(name string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	return r.Replace(name)
}

func saveResult(result *models.EvaluationResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
