package execution

import (
	"errors"
	"fmt"
)

// Phase names the part of a step that failed.
type Phase string

// Step phases.
const (
	PhaseCheck Phase = "check"
	PhaseApply Phase = "apply"
)

// StepError is the only error kind the pipeline recognises: a step's
// mutation failed or a precondition was unmet. Every StepError is fatal to
// the current run.
type StepError struct {
	Index int
	Step  string
	Phase Phase
	Err   error
}

// Error returns the formatted error message.
func (e *StepError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("step %d %q %s failed: %v", e.Index+1, e.Step, e.Phase, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Reason returns the human-readable cause without step context.
func (e *StepError) Reason() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

// AsStepError extracts a *StepError from err's chain.
func AsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
