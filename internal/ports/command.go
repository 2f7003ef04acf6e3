// Package ports defines the interfaces through which the installer reaches
// the outside world: files, packages, desktop settings, prompts and logs.
package ports

import (
	"context"
	"strings"
)

// CommandResult represents the result of executing a command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Output returns stderr when present, stdout otherwise, trimmed.
// Used to build failure messages.
func (r CommandResult) Output() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// String renders the call as a shell-like line.
func (c CommandCall) String() string {
	if len(c.Args) == 0 {
		return c.Command
	}
	return c.Command + " " + strings.Join(c.Args, " ")
}

// CommandRunner executes external commands.
// A non-zero exit is reported through CommandResult, not as an error;
// the error is reserved for commands that could not be started.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}
