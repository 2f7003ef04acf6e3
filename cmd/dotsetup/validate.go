package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the manifest",
	Long: `Validate loads the manifest, checks every step for required fields,
unknown kinds and duplicate names, and resolves the paths it refers to.
Nothing is checked on the system itself; use plan for that.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s is valid: %d step(s)\n", p.Path, p.Manifest.StepCount())
	if verbose {
		_, _ = fmt.Fprintf(out, "  user:    %s\n", p.Env.User)
		_, _ = fmt.Fprintf(out, "  home:    %s\n", p.Env.Home)
		_, _ = fmt.Fprintf(out, "  source:  %s\n", p.Env.SourceDir)
		_, _ = fmt.Fprintf(out, "  temp:    %s\n", p.Env.TempDir)
		_, _ = fmt.Fprintf(out, "  state:   %s\n", p.Env.StateDir)
	}
	return nil
}
