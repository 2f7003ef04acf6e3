package execution

// StepStatus represents the state of a step within a run.
type StepStatus string

const (
	// StatusSatisfied indicates the target state already existed; nothing was done.
	StatusSatisfied StepStatus = "satisfied"
	// StatusNeedsApply indicates the step must be applied.
	StatusNeedsApply StepStatus = "needs-apply"
	// StatusApplied indicates the step was applied during this run.
	StatusApplied StepStatus = "applied"
	// StatusFailed indicates Check or Apply returned an error.
	StatusFailed StepStatus = "failed"
	// StatusInterrupted indicates the run was cancelled while the step ran.
	StatusInterrupted StepStatus = "interrupted"
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}

// Succeeded returns true for statuses that let the pipeline continue.
func (s StepStatus) Succeeded() bool {
	switch s {
	case StatusSatisfied, StatusApplied, StatusNeedsApply:
		return true
	case StatusFailed, StatusInterrupted:
		return false
	}
	return false
}
