package app

import (
	"context"

	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/domain/execution"
)

// PlanEntry is the check result of one step.
type PlanEntry struct {
	Name     string
	Kind     config.StepKind
	Status   execution.StepStatus
	Err      error
	Children []PlanEntry
}

// Plan checks every step without applying anything. Unlike a dry run it
// keeps going after a failing check so the whole manifest is reported.
func (d *Dotsetup) Plan(ctx context.Context, p *Project) ([]PlanEntry, error) {
	steps, err := BuildSteps(p.Manifest.Steps, d.collab)
	if err != nil {
		return nil, err
	}
	rc := execution.NewRunContext(ctx, nil).WithDryRun(true)
	return planSteps(rc, p.Manifest.Steps, steps), nil
}

type nestedSteps interface {
	Steps() []execution.Step
}

func planSteps(rc execution.RunContext, specs []config.StepSpec, steps []execution.Step) []PlanEntry {
	entries := make([]PlanEntry, 0, len(steps))
	for i, step := range steps {
		entry := PlanEntry{Name: step.Name(), Kind: specs[i].Kind}
		status, err := step.Check(rc.WithIndex(i))
		if err != nil {
			status = execution.StatusFailed
		}
		entry.Status, entry.Err = status, err

		if group, ok := step.(nestedSteps); ok {
			entry.Children = planSteps(rc, specs[i].Steps, group.Steps())
		}
		entries = append(entries, entry)
	}
	return entries
}

// PlanSummary counts plan entries, nested ones included.
func PlanSummary(entries []PlanEntry) (needsApply, satisfied, failed int) {
	for _, e := range entries {
		if len(e.Children) > 0 {
			n, s, f := PlanSummary(e.Children)
			needsApply, satisfied, failed = needsApply+n, satisfied+s, failed+f
			continue
		}
		switch e.Status {
		case execution.StatusNeedsApply:
			needsApply++
		case execution.StatusSatisfied:
			satisfied++
		case execution.StatusFailed:
			failed++
		case execution.StatusApplied, execution.StatusInterrupted:
		}
	}
	return needsApply, satisfied, failed
}
