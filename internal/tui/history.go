package tui

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dotsetup/dotsetup/internal/adapters/history"
)

// PrintHistory writes recorded runs as a table, newest first.
func PrintHistory(out io.Writer, runs []*history.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTARTED\tOUTCOME\tAPPLIED\tSATISFIED\tDURATION\tDETAIL")
	for _, r := range runs {
		outcome := r.Outcome
		if r.DryRun {
			outcome += " (dry run)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			shortID(r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			outcome,
			r.Applied,
			r.Satisfied,
			roundDuration(r.Duration()),
			runDetail(r),
		)
	}
	_ = w.Flush()
}

// PrintRun writes one run with its recorded actions.
func PrintRun(out io.Writer, r *history.Run) {
	_, _ = fmt.Fprintf(out, "Run %s\n", r.ID)
	_, _ = fmt.Fprintf(out, "  started:  %s\n", r.StartedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(out, "  outcome:  %s\n", r.Outcome)
	if d := runDetail(r); d != "" {
		_, _ = fmt.Fprintf(out, "  detail:   %s\n", d)
	}
	if len(r.Actions) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, "  actions:")
	for _, a := range r.Actions {
		_, _ = fmt.Fprintf(out, "    %d. %s\n", a.Seq+1, a.Detail)
	}
}

func runDetail(r *history.Run) string {
	var detail string
	if r.FailedStep != "" {
		detail = fmt.Sprintf("%s: %s", r.FailedStep, r.Reason)
	}
	if r.RolledBack {
		if detail != "" {
			detail += "; "
		}
		if r.RollbackFailures > 0 {
			detail += fmt.Sprintf("rollback incomplete (%d)", r.RollbackFailures)
		} else {
			detail += "rolled back"
		}
	}
	return detail
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
