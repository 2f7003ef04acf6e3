package steps

import (
	"fmt"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// ConfirmStep groups optional steps behind a yes/no question. The nested
// steps run in order, inside the parent run, only when the operator agrees;
// their records go to the same ledger.
type ConfirmStep struct {
	name       string
	question   string
	defaultYes bool
	steps      []execution.Step
	prompter   ports.Prompter
	declined   bool
}

// NewConfirmStep creates a new ConfirmStep.
func NewConfirmStep(name, question string, defaultYes bool, steps []execution.Step, prompter ports.Prompter) *ConfirmStep {
	return &ConfirmStep{
		name:       name,
		question:   question,
		defaultYes: defaultYes,
		steps:      steps,
		prompter:   prompter,
	}
}

// Name returns the step name.
func (s *ConfirmStep) Name() string {
	return s.name
}

// Steps returns the nested steps.
func (s *ConfirmStep) Steps() []execution.Step {
	return s.steps
}

// Declined reports whether the operator answered no during Apply.
func (s *ConfirmStep) Declined() bool {
	return s.declined
}

// Check is satisfied when every nested step is satisfied; the operator is
// not asked in that case. A nested check error only needs apply: the
// operator is asked first and the error surfaces in Apply after a yes.
func (s *ConfirmStep) Check(rc execution.RunContext) (execution.StepStatus, error) {
	for _, step := range s.steps {
		st, err := step.Check(rc)
		if err != nil || st != execution.StatusSatisfied {
			return execution.StatusNeedsApply, nil
		}
	}
	return execution.StatusSatisfied, nil
}

// Apply asks the question and runs the nested steps on agreement.
func (s *ConfirmStep) Apply(rc execution.RunContext) error {
	ok, err := s.prompter.Confirm(rc.Context(), s.question, s.defaultYes)
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	if !ok {
		s.declined = true
		return nil
	}

	for _, step := range s.steps {
		if err := rc.Context().Err(); err != nil {
			return err
		}

		status, err := step.Check(rc)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
		if status == execution.StatusSatisfied {
			continue
		}
		if err := step.Apply(rc); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

var _ execution.Step = (*ConfirmStep)(nil)
