package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
)

// Reporter prints run progress for the operator: one line per step, the
// undo log of a rollback and a closing summary.
type Reporter struct {
	out    io.Writer
	styles Styles
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, styles: NewStyles(out)}
}

// StepStarted prints the step header.
func (r *Reporter) StepStarted(index, total int, name string) {
	r.printf("%s %s\n", r.styles.Muted.Render(fmt.Sprintf("[%d/%d]", index+1, total)), name)
}

// StepFinished prints the step outcome.
func (r *Reporter) StepFinished(res execution.StepResult) {
	switch res.Status() {
	case execution.StatusApplied:
		r.printf("  %s applied %s\n", r.styles.Success.Render("✓"), r.styles.Muted.Render(roundDuration(res.Duration())))
	case execution.StatusSatisfied:
		r.printf("  %s already satisfied\n", r.styles.Muted.Render("·"))
	case execution.StatusNeedsApply:
		r.printf("  %s would apply\n", r.styles.Info.Render("+"))
	case execution.StatusInterrupted:
		r.printf("  %s interrupted\n", r.styles.Warning.Render("!"))
	case execution.StatusFailed:
		r.printf("  %s %s\n", r.styles.Error.Render("✗"), reason(res.Error()))
	}
}

// RollbackStarted prints the undo header.
func (r *Reporter) RollbackStarted(entries int) {
	r.printf("\n%s\n", r.styles.Warning.Render(fmt.Sprintf("Rolling back %d action(s)", entries)))
}

// ActionReverted prints one undo log line.
func (r *Reporter) ActionReverted(res execution.RollbackResult) {
	switch {
	case res.Err != nil:
		r.printf("  %s undo %s: %v\n", r.styles.Error.Render("✗"), res.Action, res.Err)
	case res.Missing:
		r.printf("  %s %s (already gone)\n", r.styles.Muted.Render("·"), res.Action)
	default:
		r.printf("  %s undid %s\n", r.styles.Success.Render("↺"), res.Action)
	}
}

// RunFinished prints the summary.
func (r *Reporter) RunFinished(s execution.RunState) {
	applied, satisfied, _ := s.Counts()
	r.printf("\n")

	switch {
	case s.Completed():
		r.printf("%s %d applied, %d already satisfied %s\n",
			r.styles.Success.Render("Done."), applied, satisfied, r.styles.Muted.Render("in "+roundDuration(s.Duration())))
	case s.Interrupted():
		where := "before the first step"
		if s.FailedStep != "" {
			where = fmt.Sprintf("at step %d %q", s.FailedIndex+1, s.FailedStep)
		}
		r.printf("%s %s\n", r.styles.Warning.Render("Interrupted"), where)
	default:
		r.printf("%s at step %d %q: %s\n",
			r.styles.Error.Render("Failed"), s.FailedIndex+1, s.FailedStep, s.Reason())
	}

	if s.RolledBack {
		if failures := s.Rollback.Failures(); len(failures) > 0 {
			r.printf("%s %d of %d action(s) could not be undone; fix them by hand:\n",
				r.styles.Error.Render("Rollback incomplete:"), len(failures), s.Rollback.Len())
			for _, f := range failures {
				r.printf("  - %s: %v\n", f.Action, f.Err)
			}
		} else {
			r.printf("%s\n", r.styles.Muted.Render(fmt.Sprintf("Rolled back %d action(s); the system is as it was before the run.", s.Rollback.Len())))
		}
	}

	if s.CleanupErr != nil {
		r.printf("%s %v\n", r.styles.Warning.Render("Cleanup:"), s.CleanupErr)
	}
}

func (r *Reporter) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func reason(err error) string {
	if se, ok := execution.AsStepError(err); ok {
		return fmt.Sprintf("%s failed: %s", se.Phase, se.Reason())
	}
	if err != nil {
		return err.Error()
	}
	return "failed"
}

func roundDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

var _ execution.Observer = (*Reporter)(nil)
