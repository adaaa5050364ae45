package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/inkproof/galley/internal/models"
	"github.com/inkproof/galley/internal/orchestration"
	"github.com/inkproof/galley/internal/reporting"
)

// syncWriter serializes writes to a shared writer. Progress listeners run
// on the orchestrator's worker goroutines and batch evaluations run on
// errgroup goroutines, so lines from either would otherwise interleave.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// verboseProgressListener prints one line per scoring event.
func verboseProgressListener(out io.Writer) orchestration.ProgressListener {
	w := &syncWriter{w: out}
	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventEvaluationStart:
			fmt.Fprintf(w, "Starting evaluation with %d judgment(s)...\n\n", event.Total)
		case orchestration.EventScoreStart:
			fmt.Fprintf(w, "[%d/%d] Scoring: %s\n", event.Num, event.Total, event.Subject)
		case orchestration.EventScoreComplete:
			duration := time.Duration(event.DurationMs) * time.Millisecond
			fmt.Fprintf(w, "[%d/%d] %s: %.1f (%s, %v)\n",
				event.Num, event.Total, event.Subject, event.Score,
				reporting.InterpretSource(event.Source), duration)
		case orchestration.EventEvaluationComplete:
			duration := time.Duration(event.DurationMs) * time.Millisecond
			fmt.Fprintf(w, "\nEvaluation completed in %v\n", duration)
		}
	}
}

func printResultSummary(w io.Writer, r *models.EvaluationResult) {
	fmt.Fprintln(w, "="+strings.Repeat("=", 50))
	fmt.Fprintln(w, " EVALUATION RESULT")
	fmt.Fprintln(w, "="+strings.Repeat("=", 50))
	fmt.Fprintln(w)

	name := r.Manuscript.Filename
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "Manuscript:      %s\n", name)
	fmt.Fprintf(w, "Characters:      %d\n", r.Manuscript.CharCount)
	fmt.Fprintf(w, "Model:           %s\n", r.Setup.ModelID)
	fmt.Fprintf(w, "Composite Score: %.1f  (%s)\n", r.CompositeScore, models.ReadinessTier(r.CompositeScore))
	fmt.Fprintf(w, "Degraded:        %v\n", r.Degraded)
	fmt.Fprintln(w)

	if len(r.CategoryScores) > 0 {
		fmt.Fprintln(w, "Categories:")
		for _, cs := range r.CategoryScores {
			fmt.Fprintf(w, "  %-24s %5.1f  %-20s [%s]\n",
				cs.Category.Title(), cs.Score, reporting.InterpretScore(cs.Score), cs.Sourced)
		}
		fmt.Fprintln(w)
	}

	if len(r.CriterionScores) > 0 {
		fmt.Fprintln(w, "Template Criteria:")
		for _, cs := range r.CriterionScores {
			fmt.Fprintf(w, "  %-24s %5.1f  weight %.1f  [%s]\n", cs.Name, cs.Score, cs.Weight, cs.Sourced)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, reporting.InterpretDegraded(r))
}
