package execution

import (
	"time"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	index    int
	name     string
	status   StepStatus
	err      error
	duration time.Duration
	recorded int
}

// NewStepResult creates a new StepResult.
func NewStepResult(index int, name string, status StepStatus, err error) StepResult {
	return StepResult{
		index:  index,
		name:   name,
		status: status,
		err:    err,
	}
}

// Index returns the zero-based position of the step in the pipeline.
func (r StepResult) Index() int {
	return r.index
}

// Name returns the step name.
func (r StepResult) Name() string {
	return r.name
}

// Status returns the final status of the step.
func (r StepResult) Status() StepStatus {
	return r.status
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Recorded returns how many ledger entries the step appended.
func (r StepResult) Recorded() int {
	return r.recorded
}

// Success returns true if the step did not fail.
func (r StepResult) Success() bool {
	return r.status.Succeeded()
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// WithRecorded returns a new StepResult with the ledger entry count set.
func (r StepResult) WithRecorded(n int) StepResult {
	r.recorded = n
	return r
}
