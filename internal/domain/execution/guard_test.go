//go:build !windows

package execution

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/ledger"
	"github.com/dotsetup/dotsetup/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_SignalInterruptsAndRollsBack(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/home/kali/.zshrc", "ours")
	pm := mocks.NewPackageManager("terminator")

	installed := recordingStep("packages", ledger.PackageInstalled{Name: "terminator"})
	waiting := newConfigurableStep("copy zshrc")
	waiting.applyFn = func(rc RunContext) error {
		rc.Record(ledger.FileCreated{Path: "/home/kali/.zshrc"})
		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
		select {
		case <-rc.Context().Done():
			return rc.Context().Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}
	never := newConfigurableStep("never")

	state := NewGuard(syscall.SIGUSR1).Run(context.Background(), newTestPipeline(fs, pm), []Step{installed, waiting, never})

	assert.Equal(t, StateInterrupted, state.State)
	assert.Equal(t, 1, state.FailedIndex)
	assert.Equal(t, 0, never.checkCount())
	assert.True(t, state.Rollback.Clean())
	assert.False(t, fs.Exists("/home/kali/.zshrc"))
	assert.False(t, pm.Installed("terminator"))
}

func TestGuard_NoSignalCompletes(t *testing.T) {
	state := NewGuard(syscall.SIGUSR1).Run(context.Background(),
		newTestPipeline(mocks.NewFileSystem(), mocks.NewPackageManager()),
		[]Step{newConfigurableStep("one")})

	assert.True(t, state.Completed())
}

func TestNewGuard_DefaultSignals(t *testing.T) {
	t.Parallel()

	g := NewGuard()
	assert.Len(t, g.signals, 2)
}
