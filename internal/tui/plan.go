package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotsetup/dotsetup/internal/app"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// KindLabel renders a step kind for display, e.g. "copy-file" as
// "Copy File".
func KindLabel(kind config.StepKind) string {
	return titleCaser.String(strings.ReplaceAll(string(kind), "-", " "))
}

// PrintPlan writes the check result of every step.
func PrintPlan(out io.Writer, name string, entries []app.PlanEntry) {
	styles := NewStyles(out)

	title := "Plan"
	if name != "" {
		title = "Plan: " + name
	}
	_, _ = fmt.Fprintf(out, "%s\n\n", styles.Title.Render(title))
	printEntries(out, styles, entries, "  ")

	needsApply, satisfied, failed := app.PlanSummary(entries)
	_, _ = fmt.Fprintf(out, "\n%d to apply, %d satisfied, %d failing\n", needsApply, satisfied, failed)
	if needsApply == 0 && failed == 0 {
		_, _ = fmt.Fprintln(out, styles.Success.Render("Nothing to do. The system is up to date."))
	}
}

func printEntries(out io.Writer, styles Styles, entries []app.PlanEntry, indent string) {
	for _, e := range entries {
		mark := styles.Muted.Render("·")
		switch e.Status {
		case execution.StatusNeedsApply:
			mark = styles.Info.Render("+")
		case execution.StatusFailed:
			mark = styles.Error.Render("✗")
		case execution.StatusSatisfied, execution.StatusApplied, execution.StatusInterrupted:
		}

		label := styles.Muted.Render("(" + KindLabel(e.Kind) + ")")
		_, _ = fmt.Fprintf(out, "%s%s %s %s\n", indent, mark, e.Name, label)
		if e.Err != nil {
			_, _ = fmt.Fprintf(out, "%s    %s\n", indent, styles.Error.Render(e.Err.Error()))
		}
		if len(e.Children) > 0 {
			printEntries(out, styles, e.Children, indent+"    ")
		}
	}
}
