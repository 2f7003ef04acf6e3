// Package execution runs installation steps in order, records what they
// changed, and rolls those changes back when a step fails or the run is
// interrupted.
package execution

import (
	"context"

	"github.com/dotsetup/dotsetup/internal/domain/ledger"
)

// Step is one ordered, idempotent unit of installation work.
//
// Check must detect whether the step's target state already exists and
// report StatusSatisfied in that case; the pipeline then skips Apply and
// nothing is recorded. Apply performs the mutation and records every
// reversible effect through RunContext.Record right after that effect
// succeeded. A failing Apply returns without undoing its own partial work:
// whatever it recorded is undone by the Compensator.
type Step interface {
	// Name is the human-readable description, also used as failure label.
	Name() string
	Check(rc RunContext) (StepStatus, error)
	Apply(rc RunContext) error
}

// RunContext is handed to steps during Check and Apply.
type RunContext struct {
	ctx      context.Context
	recorder ledger.Recorder
	index    int
	dryRun   bool
}

// NewRunContext creates a RunContext recording into rec.
// A nil recorder discards records.
func NewRunContext(ctx context.Context, rec ledger.Recorder) RunContext {
	return RunContext{ctx: ctx, recorder: rec}
}

// Context returns the cancellation context. Steps pass it to every
// blocking collaborator call.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// Record appends a compensating action to the run's ledger.
func (r RunContext) Record(a ledger.Action) {
	if r.recorder == nil {
		return
	}
	r.recorder.Record(a)
}

// Index returns the zero-based position of the running step.
func (r RunContext) Index() int {
	return r.index
}

// DryRun reports whether the run only checks steps.
func (r RunContext) DryRun() bool {
	return r.dryRun
}

// WithIndex returns a copy positioned at index.
func (r RunContext) WithIndex(index int) RunContext {
	r.index = index
	return r
}

// WithDryRun returns a copy with the dry-run flag set.
func (r RunContext) WithDryRun(dryRun bool) RunContext {
	r.dryRun = dryRun
	return r
}
