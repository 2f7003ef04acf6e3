package command

import (
	"context"
	"os"

	"github.com/dotsetup/dotsetup/internal/ports"
)

// SudoRunner runs commands through sudo on top of another runner.
// Environment entries are passed as sudo VAR=value arguments, since sudo
// resets the caller's environment.
type SudoRunner struct {
	next   ports.CommandRunner
	env    []string
	isRoot func() bool
}

// NewSudoRunner creates a SudoRunner delegating to next.
func NewSudoRunner(next ports.CommandRunner) *SudoRunner {
	return &SudoRunner{
		next:   next,
		isRoot: func() bool { return os.Geteuid() == 0 },
	}
}

// WithEnv returns a runner that sets KEY=VALUE entries for the elevated
// command.
func (s *SudoRunner) WithEnv(env ...string) *SudoRunner {
	c := *s
	c.env = append(append([]string(nil), s.env...), env...)
	return &c
}

// Run executes the command with elevated privileges. When the process
// already runs as root the command is run directly.
func (s *SudoRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	if s.isRoot() {
		if len(s.env) == 0 {
			return s.next.Run(ctx, command, args...)
		}
		return s.next.Run(ctx, "env", append(append(append([]string(nil), s.env...), command), args...)...)
	}

	sudoArgs := make([]string, 0, len(s.env)+len(args)+1)
	sudoArgs = append(sudoArgs, s.env...)
	sudoArgs = append(sudoArgs, command)
	sudoArgs = append(sudoArgs, args...)
	return s.next.Run(ctx, "sudo", sudoArgs...)
}

// Ensure SudoRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*SudoRunner)(nil)
