package app

import (
	"context"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// LogObserver writes pipeline progress to a structured logger.
type LogObserver struct {
	logger ports.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger ports.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// StepStarted logs the step about to run.
func (o *LogObserver) StepStarted(index, total int, name string) {
	o.logger.Debug(context.Background(), "step started",
		ports.F("index", index+1), ports.F("total", total), ports.F("step", name))
}

// StepFinished logs the step outcome.
func (o *LogObserver) StepFinished(r execution.StepResult) {
	fields := []ports.Field{
		ports.F("index", r.Index()+1),
		ports.F("step", r.Name()),
		ports.F("status", r.Status().String()),
		ports.F("duration", r.Duration().String()),
		ports.F("recorded", r.Recorded()),
	}
	if r.Error() != nil {
		o.logger.Error(context.Background(), "step failed", append(fields, ports.Err(r.Error()))...)
		return
	}
	o.logger.Info(context.Background(), "step finished", fields...)
}

// RollbackStarted logs the start of compensation.
func (o *LogObserver) RollbackStarted(entries int) {
	o.logger.Warn(context.Background(), "rolling back", ports.F("actions", entries))
}

// ActionReverted logs one undone action.
func (o *LogObserver) ActionReverted(r execution.RollbackResult) {
	fields := []ports.Field{
		ports.F("kind", string(r.Action.Kind())),
		ports.F("action", r.Action.String()),
	}
	switch {
	case r.Err != nil:
		o.logger.Error(context.Background(), "undo failed", append(fields, ports.Err(r.Err))...)
	case r.Missing:
		o.logger.Info(context.Background(), "undo skipped, already gone", fields...)
	default:
		o.logger.Info(context.Background(), "undone", fields...)
	}
}

// RunFinished logs the run summary.
func (o *LogObserver) RunFinished(s execution.RunState) {
	applied, satisfied, failed := s.Counts()
	fields := []ports.Field{
		ports.F("run_id", s.ID),
		ports.F("outcome", string(s.State)),
		ports.F("applied", applied),
		ports.F("satisfied", satisfied),
		ports.F("failed", failed),
		ports.F("actions", len(s.Actions)),
		ports.F("duration", s.Duration().String()),
	}
	if s.CleanupErr != nil {
		o.logger.Warn(context.Background(), "cleanup failed", ports.F("run_id", s.ID), ports.Err(s.CleanupErr))
	}
	if s.RolledBack {
		fields = append(fields, ports.F("rollback_failures", len(s.Rollback.Failures())))
	}
	if s.Completed() {
		o.logger.Info(context.Background(), "run finished", fields...)
		return
	}
	fields = append(fields, ports.F("failed_step", s.FailedStep), ports.F("reason", s.Reason()))
	o.logger.Error(context.Background(), "run finished", fields...)
}

var _ execution.Observer = (*LogObserver)(nil)
