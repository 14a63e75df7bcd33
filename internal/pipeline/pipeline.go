// Package pipeline sequences shape-typed steps into a fail-fast runner.
// Every value crossing a step boundary is validated against the declared
// shape on both sides: a step never sees input that does not conform, and a
// malformed output is caught before it can propagate downstream.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/griefbot/memeforge/pkg/api"
	"github.com/griefbot/memeforge/pkg/events"
	"github.com/griefbot/memeforge/pkg/log"
	"github.com/griefbot/memeforge/pkg/schema"
)

type (
	// Pipeline is an ordered sequence of steps whose adjacent shapes have
	// been checked for structural compatibility at construction time. A
	// Pipeline is immutable and safe for concurrent runs; each run owns
	// its own context value and result
	Pipeline struct {
		hub   *events.Hub
		name  api.Name
		steps []*Step
	}

	// Option configures a Pipeline at construction time
	Option func(*Pipeline)
)

// WithHub attaches an event hub that receives run lifecycle events
func WithHub(hub *events.Hub) Option {
	return func(p *Pipeline) {
		p.hub = hub
	}
}

// New constructs a pipeline from an ordered sequence of steps. It fails
// fast with a ConfigError when the definition is malformed or when, for
// any adjacent pair, the earlier step's output shape does not satisfy the
// later step's input shape
func New(name api.Name, steps []*Step, opts ...Option) (*Pipeline, error) {
	if name == "" {
		return nil, newConfigError(ErrPipelineNameEmpty)
	}
	if len(steps) == 0 {
		return nil, newConfigError(ErrNoSteps)
	}

	seen := map[api.Name]struct{}{}
	for _, step := range steps {
		if err := step.Validate(); err != nil {
			return nil, newConfigError(err)
		}
		if _, ok := seen[step.Name]; ok {
			return nil, newConfigError(fmt.Errorf("%w: %s",
				ErrDuplicateStep, step.Name))
		}
		seen[step.Name] = struct{}{}
	}

	for i := 0; i < len(steps)-1; i++ {
		prev, next := steps[i], steps[i+1]
		if err := schema.Satisfies(prev.Output, next.Input); err != nil {
			return nil, newConfigError(fmt.Errorf("%w: %s -> %s: %w",
				ErrIncompatibleSteps, prev.Name, next.Name, err))
		}
	}

	p := &Pipeline{
		name:  name,
		steps: steps,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the pipeline's name
func (p *Pipeline) Name() api.Name {
	return p.name
}

// Steps returns the pipeline's steps in declaration order
func (p *Pipeline) Steps() []*Step {
	return p.steps
}

// Run executes the steps strictly sequentially, validating at every
// boundary, and returns a terminal Result. The first failure halts the run;
// no subsequent step is invoked. Concurrent runs are independent
func (p *Pipeline) Run(ctx context.Context, initial api.Args) *api.Result {
	runID := api.NewRunID()
	start := time.Now()

	slog.Info("Pipeline run started",
		log.Pipeline(p.name),
		log.RunID(runID))
	p.publish(events.RunStartedEvent(p.name, runID))

	first := p.steps[0]
	if err := schema.Validate(first.Input, initial); err != nil {
		return p.fail(
			runID, start, first.Name, api.ReasonInvalidInput, err,
		)
	}

	current := initial
	for _, step := range p.steps {
		current = schema.ApplyDefaults(step.Input, current)
		p.publish(events.StepStartedEvent(p.name, runID, step.Name))

		output, err := step.Handler(ctx, current)
		if err != nil {
			return p.fail(
				runID, start, step.Name, api.ReasonExecution, err,
			)
		}

		if err := schema.Validate(step.Output, output); err != nil {
			return p.fail(
				runID, start, step.Name, api.ReasonInvalidOutput, err,
			)
		}

		p.publish(events.StepCompletedEvent(p.name, runID, step.Name))

		// the compatibility check counts an optional output field toward
		// the next step's required input when it carries a default, so
		// those defaults must be filled before the value is threaded
		current = schema.ApplyDefaults(step.Output, output)
	}

	res := &api.Result{
		RunID:    runID,
		Pipeline: p.name,
		Status:   api.RunSuccess,
		Output:   current,
		Elapsed:  time.Since(start),
	}
	slog.Info("Pipeline run completed",
		log.Pipeline(p.name),
		log.RunID(runID),
		slog.Duration("elapsed", res.Elapsed))
	p.publish(events.ResultEvent(res))
	return res
}

func (p *Pipeline) fail(
	runID api.RunID, start time.Time, step api.Name,
	reason api.FailureReason, err error,
) *api.Result {
	res := &api.Result{
		RunID:      runID,
		Pipeline:   p.name,
		Status:     api.RunFailure,
		FailedStep: step,
		Reason:     reason,
		Detail:     err.Error(),
		Violations: violationsOf(err),
		Elapsed:    time.Since(start),
	}

	slog.Error("Pipeline run failed",
		log.Pipeline(p.name),
		log.RunID(runID),
		log.StepName(step),
		log.Reason(reason),
		log.Error(err))

	p.publish(events.StepFailedEvent(
		p.name, runID, step, reason, res.Detail,
	))
	p.publish(events.ResultEvent(res))
	return res
}

func (p *Pipeline) publish(ev *events.Event) {
	if p.hub != nil {
		p.hub.Publish(ev)
	}
}

func violationsOf(err error) []api.Violation {
	var verr *schema.Error
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}
