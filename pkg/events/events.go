// Package events publishes pipeline run lifecycle events to in-process
// subscribers. Events are observational only; they never affect pipeline
// control flow.
package events

import (
	"time"

	"github.com/griefbot/memeforge/pkg/api"
)

type (
	// Type identifies the kind of a run lifecycle event
	Type string

	// Event is the envelope published for every run lifecycle transition
	Event struct {
		Output     api.Args          `json:"output,omitempty"`
		Timestamp  time.Time         `json:"timestamp"`
		Type       Type              `json:"type"`
		RunID      api.RunID         `json:"run_id"`
		Pipeline   api.Name          `json:"pipeline"`
		Step       api.Name          `json:"step,omitempty"`
		Reason     api.FailureReason `json:"reason,omitempty"`
		Detail     string            `json:"detail,omitempty"`
		Violations []api.Violation   `json:"violations,omitempty"`
	}
)

const (
	RunStarted    Type = "run-started"
	RunCompleted  Type = "run-completed"
	RunFailed     Type = "run-failed"
	StepStarted   Type = "step-started"
	StepCompleted Type = "step-completed"
	StepFailed    Type = "step-failed"
)
