package main

import (
	"github.com/dotsetup/dotsetup/internal/app"
	"github.com/dotsetup/dotsetup/internal/tui"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show which steps install would apply",
	Long: `Plan checks every step of the manifest without changing anything and
prints whether it is already satisfied, would be applied, or fails its
check. Unlike install --dry-run it keeps going after a failing check.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	logger, err := newConsoleLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	entries, err := app.New(newCollaborators(yesFlag), logger).Plan(cmd.Context(), p)
	if err != nil {
		return err
	}

	tui.PrintPlan(cmd.OutOrStdout(), p.Manifest.Name, entries)

	if _, _, failed := app.PlanSummary(entries); failed > 0 {
		return &exitError{code: app.ExitFailed}
	}
	return nil
}
