package app

import (
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/domain/execution"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitConfig      = 2
	ExitInterrupted = 130
)

// ExitCode maps a finished run to the process exit code.
func ExitCode(state execution.RunState) int {
	switch state.State {
	case execution.StateCompleted:
		return ExitOK
	case execution.StateInterrupted:
		return ExitInterrupted
	case execution.StateFailed, execution.StateNotStarted, execution.StateRunning:
		return ExitFailed
	}
	return ExitFailed
}

// ExitCodeForError maps an error raised before a run started.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitOK
	}
	if config.GetUserError(err) != nil {
		return ExitConfig
	}
	return ExitFailed
}
