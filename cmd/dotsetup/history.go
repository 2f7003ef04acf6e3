package main

import (
	"errors"
	"fmt"

	"github.com/dotsetup/dotsetup/internal/adapters/history"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/tui"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past install runs",
	Long: `Display the runs recorded by install, most recent first.

History is stored in history.db in the state directory
($XDG_STATE_HOME/dotsetup) and includes for every run:
  - Start time and duration
  - Outcome (completed, failed, interrupted)
  - The failed step and its reason
  - Whether the recorded changes were rolled back

Pass a run ID, or its first characters, to list the changes it recorded.

Examples:
  dotsetup history              # Show recent runs
  dotsetup history --limit 50   # Show more runs
  dotsetup history 6f1c2a9e     # Show one run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "Maximum runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := newEnvResolver().Resolve(&config.Manifest{})
	if err != nil {
		return err
	}

	if !fileExists(env.HistoryPath()) {
		tui.PrintHistory(out, nil)
		return nil
	}

	store, err := history.Open(env.HistoryPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		run, err := store.Get(ctx, args[0])
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no run matches %q", args[0])
		}
		if err != nil {
			return err
		}
		tui.PrintRun(out, run)
		return nil
	}

	runs, err := store.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	tui.PrintHistory(out, runs)
	return nil
}
