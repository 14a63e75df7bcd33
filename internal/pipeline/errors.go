package pipeline

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed pipeline definition. It is detected at
// construction time, before any run can start, and is fatal to pipeline
// startup rather than to an individual run
type ConfigError struct {
	err error
}

var (
	ErrPipelineNameEmpty = errors.New("pipeline name empty")
	ErrNoSteps           = errors.New("pipeline requires at least one step")
	ErrDuplicateStep     = errors.New("duplicate step name")
	ErrIncompatibleSteps = errors.New("adjacent step shapes incompatible")
)

func newConfigError(err error) *ConfigError {
	return &ConfigError{err: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pipeline configuration: %v", e.err)
}

func (e *ConfigError) Unwrap() error {
	return e.err
}

// IsConfig reports whether err is (or wraps) a ConfigError
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
