package execution

import (
	"sync"

	"github.com/dotsetup/dotsetup/internal/domain/ledger"
)

// configurableStep is a Step whose behaviour is set per test.
type configurableStep struct {
	name    string
	checkFn func(rc RunContext) (StepStatus, error)
	applyFn func(rc RunContext) error

	mu      sync.Mutex
	checks  int
	applies int
}

func newConfigurableStep(name string) *configurableStep {
	return &configurableStep{name: name}
}

// recordingStep applies by recording the given actions.
func recordingStep(name string, actions ...ledger.Action) *configurableStep {
	s := newConfigurableStep(name)
	s.applyFn = func(rc RunContext) error {
		for _, a := range actions {
			rc.Record(a)
		}
		return nil
	}
	return s
}

func (s *configurableStep) Name() string { return s.name }

func (s *configurableStep) Check(rc RunContext) (StepStatus, error) {
	s.mu.Lock()
	s.checks++
	s.mu.Unlock()
	if s.checkFn != nil {
		return s.checkFn(rc)
	}
	return StatusNeedsApply, nil
}

func (s *configurableStep) Apply(rc RunContext) error {
	s.mu.Lock()
	s.applies++
	s.mu.Unlock()
	if s.applyFn != nil {
		return s.applyFn(rc)
	}
	return nil
}

func (s *configurableStep) applyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applies
}

func (s *configurableStep) checkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks
}

// recordingObserver captures observer notifications.
type recordingObserver struct {
	mu       sync.Mutex
	started  []string
	finished []StepResult
	rollback int
	reverted []RollbackResult
	runs     []RunState
}

func (o *recordingObserver) StepStarted(_, _ int, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, name)
}

func (o *recordingObserver) StepFinished(result StepResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, result)
}

func (o *recordingObserver) RollbackStarted(entries int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rollback = entries
}

func (o *recordingObserver) ActionReverted(result RollbackResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reverted = append(o.reverted, result)
}

func (o *recordingObserver) RunFinished(state RunState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, state)
}
