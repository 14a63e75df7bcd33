package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/griefbot/memeforge/pkg/api"
)

type (
	// Handler is a step's execute operation. The runner guarantees it is
	// only ever invoked with input that validated against the step's
	// declared input shape; the handler itself only checks domain-level
	// constraints. Handlers may perform network I/O and must not assume
	// they are called exactly once across runs
	Handler func(context.Context, api.Args) (api.Args, error)

	// Step is a named unit of work with declared input and output shapes.
	// Steps are immutable once a pipeline is constructed and are reused
	// across runs; they hold no per-run state
	Step struct {
		Handler     Handler
		Input       api.Shape
		Output      api.Shape
		Name        api.Name
		Description string
	}
)

var (
	ErrStepNameEmpty  = errors.New("step name empty")
	ErrStepHandlerNil = errors.New("step handler nil")
	ErrStepInputShape = errors.New("invalid input shape")
	ErrStepOutput     = errors.New("invalid output shape")
)

// Validate checks that the step is well-formed
func (s *Step) Validate() error {
	if s.Name == "" {
		return ErrStepNameEmpty
	}
	if s.Handler == nil {
		return fmt.Errorf("%w: %s", ErrStepHandlerNil, s.Name)
	}
	if err := s.Input.Validate(); err != nil {
		return fmt.Errorf("%w for step %q: %w", ErrStepInputShape, s.Name, err)
	}
	if err := s.Output.Validate(); err != nil {
		return fmt.Errorf("%w for step %q: %w", ErrStepOutput, s.Name, err)
	}
	return nil
}
