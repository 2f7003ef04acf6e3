package main

import (
	"fmt"

	"github.com/dotsetup/dotsetup/internal/adapters/history"
	"github.com/dotsetup/dotsetup/internal/app"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/dotsetup/dotsetup/internal/tui"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Run the manifest's steps",
	Long: `Install runs every step of the manifest in order.

Each step first checks whether its target state already exists and only
applies what is missing, so re-running install is safe. If a step fails,
or the run is interrupted with Ctrl-C, every change recorded so far is
undone in reverse order.

Exit codes:
  0    all steps completed
  1    a step failed (changes were rolled back)
  2    the manifest or host is invalid
  130  interrupted (changes were rolled back)

Use --dry-run to check the steps without making changes.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var (
	installDryRun    bool
	installAllowRoot bool
)

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Check steps without making changes")
	installCmd.Flags().BoolVar(&installAllowRoot, "allow-root", false, "Allow running as root")
}

func runInstall(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := config.CheckNotRoot(geteuid(), installAllowRoot); err != nil {
		return err
	}
	if err := config.CheckHost(hostExists); err != nil {
		return err
	}

	p, err := loadProject()
	if err != nil {
		return err
	}

	logger, closeLog, err := newRunLogger(ctx, cmd.ErrOrStderr(), p)
	if err != nil {
		return err
	}
	defer closeLog()

	dotsetup := app.New(newCollaborators(yesFlag), logger).
		WithObserver(tui.NewReporter(out))

	store, err := history.Open(p.Env.HistoryPath())
	if err != nil {
		logger.Warn(ctx, "run history disabled", ports.F("path", p.Env.HistoryPath()), ports.Err(err))
	} else {
		defer func() { _ = store.Close() }()
		dotsetup = dotsetup.WithHistory(store)
	}

	_, _ = fmt.Fprintf(out, "Installing %s (%d steps)\n\n", manifestName(p), p.Manifest.StepCount())

	state, err := dotsetup.Install(ctx, p, app.InstallOptions{DryRun: installDryRun})
	if err != nil {
		return err
	}

	if installDryRun && state.Completed() {
		_, _ = fmt.Fprintln(out, "\n[Dry run - no changes made]")
	}

	if code := app.ExitCode(state); code != app.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

func manifestName(p *app.Project) string {
	if p.Manifest.Name != "" {
		return p.Manifest.Name
	}
	return p.Path
}
