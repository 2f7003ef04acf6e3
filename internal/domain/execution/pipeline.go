package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/ledger"
	"github.com/google/uuid"
)

// CleanupFunc runs once at the end of every run, whatever the outcome.
type CleanupFunc func(ctx context.Context) error

// Pipeline runs steps in declaration order and stops at the first failure.
// On failure or interruption it hands the run's ledger to the Compensator.
type Pipeline struct {
	compensator *Compensator
	cleanup     CleanupFunc
	observer    Observer
	dryRun      bool
}

// NewPipeline creates a Pipeline that rolls back with the given Compensator.
func NewPipeline(compensator *Compensator) *Pipeline {
	return &Pipeline{
		compensator: compensator,
		observer:    NopObserver{},
	}
}

// WithCleanup returns a Pipeline that calls fn exactly once per run.
func (p *Pipeline) WithCleanup(fn CleanupFunc) *Pipeline {
	c := *p
	c.cleanup = fn
	return &c
}

// WithObserver returns a Pipeline that reports progress to o.
func (p *Pipeline) WithObserver(o Observer) *Pipeline {
	c := *p
	if o == nil {
		o = NopObserver{}
	}
	c.observer = o
	return &c
}

// WithDryRun returns a Pipeline that only checks steps.
func (p *Pipeline) WithDryRun(dryRun bool) *Pipeline {
	c := *p
	c.dryRun = dryRun
	return &c
}

// Run executes steps strictly in order.
//
// The first step error ends the run as Failed; a cancelled ctx ends it as
// Interrupted. In both cases every action recorded so far is undone, most
// recent first, on a context that ignores the cancellation. The cleanup
// hook runs last, exactly once.
func (p *Pipeline) Run(ctx context.Context, steps []Step) RunState {
	state := RunState{
		ID:          uuid.New().String(),
		State:       StateNotStarted,
		FailedIndex: -1,
		Started:     time.Now(),
	}
	detached := context.WithoutCancel(ctx)

	machine, err := newRunMachine()
	if err != nil {
		state.State = StateFailed
		state.Err = err
		p.finish(detached, &state)
		return state
	}
	defer machine.stop()

	machine.start()
	state.State = machine.state()

	led := ledger.New()
	base := NewRunContext(ctx, led).WithDryRun(p.dryRun)

	for i, step := range steps {
		if ctx.Err() != nil {
			machine.interrupt()
			state.FailedIndex = i
			state.FailedStep = step.Name()
			break
		}

		p.observer.StepStarted(i, len(steps), step.Name())
		before := led.Len()
		result := p.execute(base.WithIndex(i), step)
		result = result.WithRecorded(led.Len() - before)

		// An interrupt during a step fails that step, even when the step
		// ignored the cancellation and returned cleanly.
		if ctx.Err() != nil {
			result = NewStepResult(i, step.Name(), StatusInterrupted, result.Error()).
				WithDuration(result.Duration()).
				WithRecorded(result.Recorded())
		}
		state.Results = append(state.Results, result)
		p.observer.StepFinished(result)

		if result.Status() == StatusInterrupted {
			machine.interrupt()
			state.FailedIndex = i
			state.FailedStep = step.Name()
			state.Err = result.Error()
			break
		}
		if result.Error() != nil {
			machine.fail()
			state.FailedIndex = i
			state.FailedStep = step.Name()
			state.Err = result.Error()
			break
		}
	}

	if state.FailedIndex < 0 {
		machine.succeed()
	}
	state.State = machine.state()
	state.Actions = led.Entries()

	if !state.Completed() && led.Len() > 0 {
		p.observer.RollbackStarted(led.Len())
		state.Rollback = p.compensator.withNotify(p.observer.ActionReverted).Rollback(detached, led)
		state.RolledBack = true
	}

	p.finish(detached, &state)
	return state
}

func (p *Pipeline) finish(ctx context.Context, state *RunState) {
	if p.cleanup != nil {
		state.CleanupErr = p.cleanup(ctx)
	}
	state.Finished = time.Now()
	p.observer.RunFinished(*state)
}

// execute checks a step and applies it when needed. Panics are converted
// into step errors so that rollback still runs.
func (p *Pipeline) execute(rc RunContext, step Step) (result StepResult) {
	start := time.Now()
	phase := PhaseCheck

	defer func() {
		if r := recover(); r != nil {
			err := &StepError{Index: rc.Index(), Step: step.Name(), Phase: phase, Err: fmt.Errorf("panic: %v", r)}
			result = NewStepResult(rc.Index(), step.Name(), StatusFailed, err).WithDuration(time.Since(start))
		}
	}()

	status, err := step.Check(rc)
	if err != nil {
		err = &StepError{Index: rc.Index(), Step: step.Name(), Phase: PhaseCheck, Err: err}
		return NewStepResult(rc.Index(), step.Name(), StatusFailed, err).WithDuration(time.Since(start))
	}

	if status == StatusSatisfied || rc.DryRun() {
		return NewStepResult(rc.Index(), step.Name(), status, nil).WithDuration(time.Since(start))
	}

	phase = PhaseApply
	if err := step.Apply(rc); err != nil {
		err = &StepError{Index: rc.Index(), Step: step.Name(), Phase: PhaseApply, Err: err}
		return NewStepResult(rc.Index(), step.Name(), StatusFailed, err).WithDuration(time.Since(start))
	}

	return NewStepResult(rc.Index(), step.Name(), StatusApplied, nil).WithDuration(time.Since(start))
}
