package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess  = 0 // Evaluation completed with full-confidence scores
	ExitDegraded = 1 // Evaluation completed but some scores used the fallback
	ExitError    = 2 // Configuration or input error
)

// DegradedError indicates that the evaluation ran to completion and produced
// a usable result, but at least one score came from the deterministic
// fallback instead of the model.
type DegradedError struct {
	Message string
}

func (e *DegradedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var degradedErr *DegradedError
		if errors.As(err, &degradedErr) {
			os.Exit(ExitDegraded)
		}

		// All other errors are configuration/input errors
		os.Exit(ExitError)
	}
}
