package api

import (
	"time"

	"github.com/google/uuid"
)

type (
	// RunID is a unique identifier for a single pipeline run
	RunID string

	// RunStatus is the terminal status of a pipeline run
	RunStatus string

	// FailureReason classifies why a pipeline run failed
	FailureReason string

	// Violation records a single schema violation at a fully qualified
	// field path, e.g. "captions.topText" or "templates[2].id"
	Violation struct {
		Path     string `json:"path"`
		Problem  string `json:"problem"`
		Expected Kind   `json:"expected,omitempty"`
		Actual   string `json:"actual,omitempty"`
	}

	// Result is the terminal outcome of one pipeline run. It is produced
	// exactly once per run and never mutated
	Result struct {
		Output     Args          `json:"output,omitempty"`
		RunID      RunID         `json:"run_id"`
		Pipeline   Name          `json:"pipeline"`
		Status     RunStatus     `json:"status"`
		FailedStep Name          `json:"failed_step,omitempty"`
		Reason     FailureReason `json:"reason,omitempty"`
		Detail     string        `json:"detail,omitempty"`
		Violations []Violation   `json:"violations,omitempty"`
		Elapsed    time.Duration `json:"elapsed"`
	}
)

const (
	RunSuccess RunStatus = "success"
	RunFailure RunStatus = "failure"

	// ReasonInvalidInput reports an initial input that failed the first
	// step's input shape; no step was run
	ReasonInvalidInput FailureReason = "invalid-input"

	// ReasonExecution reports a step whose handler failed
	ReasonExecution FailureReason = "execution-error"

	// ReasonInvalidOutput reports a step whose output failed its declared
	// output shape; the value never reached the next step
	ReasonInvalidOutput FailureReason = "invalid-output"

	ProblemMissing  = "missing field"
	ProblemMismatch = "type mismatch"
)

// NewRunID generates a unique identifier for a pipeline run
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// IsSuccess reports whether the run completed all steps
func (r *Result) IsSuccess() bool {
	return r.Status == RunSuccess
}
