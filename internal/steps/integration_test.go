package steps_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dotsetup/dotsetup/internal/adapters/filesystem"
	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/steps"
	"github.com/dotsetup/dotsetup/internal/testutil"
	"github.com/dotsetup/dotsetup/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	src  string
	home string
	pm   *mocks.PackageManager
	fs   *filesystem.RealFileSystem
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	root := t.TempDir()
	f := fixture{
		src:  filepath.Join(root, "src"),
		home: filepath.Join(root, "home", "kali"),
		pm:   mocks.NewPackageManager("zsh"),
		fs:   filesystem.NewRealFileSystem(),
	}

	testutil.WriteTree(t, f.src, map[string]string{
		"zshrc":             "export ZSH_THEME=kali\n",
		"terminator/config": "[global_config]\n",
		"kitty/kitty.conf":  "font_size 12\n",
	})
	require.NoError(t, os.MkdirAll(f.home, 0o755))

	return f
}

func (f fixture) steps() []execution.Step {
	return []execution.Step{
		steps.NewRequireFilesStep("required files", []string{
			filepath.Join(f.src, "zshrc"),
			filepath.Join(f.src, "terminator"),
		}, f.fs),
		steps.NewPackagesStep("additional packages", []string{"zsh", "kitty", "bat", "flameshot"}, false, f.pm),
		steps.NewCopyFileStep("zshrc", filepath.Join(f.src, "zshrc"), filepath.Join(f.home, ".zshrc"), true, 0, f.fs),
		steps.NewCopyFileStep("kitty config", filepath.Join(f.src, "kitty", "kitty.conf"),
			filepath.Join(f.home, ".config", "kitty", "kitty.conf"), true, 0, f.fs),
		steps.NewCopyTreeStep("terminator config", filepath.Join(f.src, "terminator"),
			filepath.Join(f.home, ".config", "terminator"), f.fs),
		steps.NewEnsureDirsStep("ctf folders", []string{
			filepath.Join(f.home, "CTF", "HTB"),
			filepath.Join(f.home, "CTF", "THM"),
		}, f.fs),
	}
}

func failingStep() execution.Step {
	return steps.NewRequireFilesStep("wallpaper", []string{"/nonexistent/wallpaper.png"}, filesystem.NewRealFileSystem())
}

func TestIntegration_IdempotentRerun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pipeline := execution.NewPipeline(execution.NewCompensator(f.fs, f.pm))

	first := pipeline.Run(context.Background(), f.steps())
	require.True(t, first.Completed(), first.Reason())
	assert.NotEmpty(t, first.Actions)

	second := pipeline.Run(context.Background(), f.steps())
	require.True(t, second.Completed(), second.Reason())
	assert.Empty(t, second.Actions)

	applied, satisfied, failed := second.Counts()
	assert.Zero(t, applied)
	assert.Equal(t, len(f.steps()), satisfied)
	assert.Zero(t, failed)
}

func TestIntegration_FailureRestoresHome(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	original := []byte("# user's own zshrc\x00\xff binary-safe\n")
	zshrc := filepath.Join(f.home, ".zshrc")
	require.NoError(t, os.WriteFile(zshrc, original, 0o600))
	before := testutil.ListTree(t, f.home)

	pipeline := execution.NewPipeline(execution.NewCompensator(f.fs, f.pm))
	state := pipeline.Run(context.Background(), append(f.steps(), failingStep()))

	require.True(t, state.Failed())
	assert.Equal(t, "wallpaper", state.FailedStep)
	require.True(t, state.RolledBack)
	assert.True(t, state.Rollback.Clean(), "rollback failures: %v", state.Rollback.Failures())

	restored, err := os.ReadFile(zshrc)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
	assert.Equal(t, before, testutil.ListTree(t, f.home))

	assert.True(t, f.pm.Installed("zsh"), "pre-existing package must be kept")
	assert.False(t, f.pm.Installed("kitty"))
	assert.False(t, f.pm.Installed("bat"))
	assert.False(t, f.pm.Installed("flameshot"))
}

func TestIntegration_InterruptRestoresHome(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	before := testutil.ListTree(t, f.home)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.pm.OnInstall(func(name string) {
		if name == "bat" {
			cancel()
		}
	})

	pipeline := execution.NewPipeline(execution.NewCompensator(f.fs, f.pm))
	state := pipeline.Run(ctx, f.steps())

	require.True(t, state.Interrupted())
	assert.Equal(t, "additional packages", state.FailedStep)
	assert.Equal(t, before, testutil.ListTree(t, f.home))
	assert.False(t, f.pm.Installed("kitty"))
	assert.False(t, f.pm.Installed("bat"))
	assert.True(t, errors.Is(state.Err, context.Canceled))
}
