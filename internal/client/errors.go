package client

import (
	"errors"
	"fmt"
)

type (
	// NetworkError is a transport-level failure: the service could not be
	// reached, the call timed out, or the response body could not be
	// decoded. Network errors are eligible for bounded retry
	NetworkError struct {
		err error
		msg string
	}

	// ServiceError means the remote service responded but reported an
	// application-level error. Service errors are never retried
	ServiceError struct {
		msg string
	}
)

func NewNetworkError(msg string, err error) *NetworkError {
	return &NetworkError{msg: msg, err: err}
}

func NewServiceError(format string, args ...any) *ServiceError {
	return &ServiceError{msg: fmt.Sprintf(format, args...)}
}

func (e *NetworkError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *NetworkError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Error() string {
	return e.msg
}

// IsNetwork reports whether err is (or wraps) a NetworkError
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsService reports whether err is (or wraps) a ServiceError
func IsService(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
