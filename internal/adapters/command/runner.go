// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dotsetup/dotsetup/internal/ports"
)

// RealRunner executes actual commands.
type RealRunner struct {
	env []string
}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// WithEnv returns a runner that adds KEY=VALUE entries to the inherited
// environment.
func (r *RealRunner) WithEnv(env ...string) *RealRunner {
	c := *r
	c.env = append(append([]string(nil), r.env...), env...)
	return &c
}

// Run executes a command and returns the result. A command killed because
// ctx ended reports ctx's error.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}
	logCommand(ctx, command, args, result, time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// log reports the command at debug level to the logger carried by ctx.
func logCommand(ctx context.Context, command string, args []string, result ports.CommandResult, d time.Duration) {
	logger := ports.LoggerFromContext(ctx)
	if logger == nil {
		return
	}
	logger.Debug(ctx, "command finished",
		ports.F("command", ports.CommandCall{Command: command, Args: args}.String()),
		ports.F("exit_code", result.ExitCode),
		ports.F("duration", d.String()),
	)
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
