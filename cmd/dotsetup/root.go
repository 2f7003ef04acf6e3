package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dotsetup/dotsetup/internal/app"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	yesFlag   bool
	logFormat string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "dotsetup",
	Short: "Transactional workstation installer",
	Long: `dotsetup provisions a Debian-based workstation from a declarative manifest.

Steps run strictly in order. Every change is recorded as it happens, and
a failure or Ctrl-C undoes the recorded changes in reverse order, so the
machine is left as it was before the run:
  Check → Apply → Record → (on failure) Roll back`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// exitError carries a process exit code. A nil err means the outcome was
// already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(rootCmd, os.Stderr)
}

func execute(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return app.ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			printErrorTo(stderr, exitErr.err)
		}
		return exitErr.code
	}

	printErrorTo(stderr, err)
	return app.ExitCodeForError(err)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "manifest file (default: dotsetup.yaml, dotsetup.yml or dotsetup.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "answer yes to all prompts")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "console log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "console log level (debug, info, warn, error); --verbose implies debug")

	// Register flag completions
	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *config.ErrorList
	if errors.As(err, &list) && list.Len() > 1 {
		return list.Format()
	}

	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	// Complete --config with manifest files
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"text\tHuman readable lines",
			"json\tOne JSON object per line",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
}
