package execution

import (
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/ledger"
)

// RunState is the record of one pipeline run.
type RunState struct {
	// ID identifies the run in logs.
	ID    string
	State State
	// FailedIndex is the zero-based index of the failed or interrupted
	// step, -1 when the run completed.
	FailedIndex int
	FailedStep  string
	// Err is the *StepError that stopped the run, nil otherwise.
	// An interrupt between steps leaves Err nil.
	Err        error
	Results    []StepResult
	Actions    []ledger.Action
	Rollback   RollbackReport
	RolledBack bool
	// CleanupErr is the error returned by the cleanup hook, if any.
	CleanupErr error
	Started    time.Time
	Finished   time.Time
}

// Completed returns true if every step succeeded.
func (s RunState) Completed() bool {
	return s.State == StateCompleted
}

// Failed returns true if a step failed.
func (s RunState) Failed() bool {
	return s.State == StateFailed
}

// Interrupted returns true if the run was cancelled.
func (s RunState) Interrupted() bool {
	return s.State == StateInterrupted
}

// Reason returns the failure cause, empty for completed runs.
func (s RunState) Reason() string {
	if se, ok := AsStepError(s.Err); ok {
		return se.Reason()
	}
	if s.Err != nil {
		return s.Err.Error()
	}
	if s.Interrupted() {
		return "interrupted"
	}
	return ""
}

// Duration returns the wall time of the run.
func (s RunState) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Counts returns how many steps were applied, already satisfied, and failed.
func (s RunState) Counts() (applied, satisfied, failed int) {
	for i := range s.Results {
		switch s.Results[i].Status() {
		case StatusApplied:
			applied++
		case StatusSatisfied:
			satisfied++
		case StatusFailed, StatusInterrupted:
			failed++
		case StatusNeedsApply:
		}
	}
	return applied, satisfied, failed
}
