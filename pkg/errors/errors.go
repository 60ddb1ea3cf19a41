package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrNotImplemented indicates a feature is not implemented
	ErrNotImplemented = errors.New("not implemented")
)

// Pipeline-specific errors

var (
	// ErrStageOutOfRange indicates a stage number outside 1-6
	ErrStageOutOfRange = errors.New("stage number out of range")

	// ErrStageNotApproved indicates a prior stage has not been approved
	ErrStageNotApproved = errors.New("prior stage not approved")

	// ErrStageNotComplete indicates a stage result is not in an approvable state
	ErrStageNotComplete = errors.New("stage not complete")

	// ErrNoAgents indicates no enabled agents are configured for a stage
	ErrNoAgents = errors.New("no agents configured for stage")

	// ErrRunInProgress indicates a stage run is already in flight
	ErrRunInProgress = errors.New("stage run already in progress")
)

// Model-service errors

var (
	// ErrExternal indicates an upstream model service error
	ErrExternal = errors.New("external service error")

	// ErrRateLimitExceeded indicates API rate limit exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
