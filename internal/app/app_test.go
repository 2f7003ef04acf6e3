package app_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dotsetup/dotsetup/internal/adapters/history"
	"github.com/dotsetup/dotsetup/internal/adapters/logging"
	"github.com/dotsetup/dotsetup/internal/app"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/dotsetup/dotsetup/internal/steps"
	"github.com/dotsetup/dotsetup/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	mu   sync.Mutex
	runs []*history.Run
	err  error
}

func (h *fakeHistory) Record(_ context.Context, run *history.Run) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.runs = append(h.runs, run)
	return nil
}

type harness struct {
	fs       *mocks.FileSystem
	pm       *mocks.PackageManager
	settings *mocks.SettingsBackend
	prompter *mocks.Prompter
	history  *fakeHistory
	logs     *bytes.Buffer
	app      *app.Dotsetup
}

func newHarness(answers ...bool) *harness {
	h := &harness{
		fs:       mocks.NewFileSystem(),
		pm:       mocks.NewPackageManager("zsh"),
		settings: mocks.NewSettingsBackend(),
		prompter: mocks.NewPrompter(answers...),
		history:  &fakeHistory{},
		logs:     &bytes.Buffer{},
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(h.logs),
		logging.WithLevel(ports.LevelDebug),
		logging.WithTimestamp(false),
	)
	h.app = app.New(app.Collaborators{
		FS:       h.fs,
		Packages: h.pm,
		Settings: h.settings,
		Prompter: h.prompter,
	}, logger).WithHistory(h.history)

	h.fs.AddDir("/src")
	h.fs.AddFile("/src/zshrc", "export ZSH_THEME=kali\n")
	h.fs.AddFile("/src/panel.conf", "[/]\npanel-size=32\n")
	h.fs.AddDir("/home/alice")
	return h
}

func project(specs ...config.StepSpec) *app.Project {
	env := config.Environment{
		User:      "alice",
		Home:      "/home/alice",
		SourceDir: "/src",
		TempDir:   "/tmp/dotsetup-alice",
		StateDir:  "/home/alice/.local/state/dotsetup",
	}
	m := &config.Manifest{Name: "test", Steps: specs}
	return &app.Project{Path: "/src/dotsetup.yaml", Manifest: m.Expand(env), Env: env}
}

func standardSpecs() []config.StepSpec {
	return []config.StepSpec{
		{Name: "sources", Kind: config.KindRequireFiles, Paths: []string{"zshrc"}},
		{Name: "packages", Kind: config.KindPackages, Packages: []string{"zsh", "kitty", "bat"}},
		{Name: "zshrc", Kind: config.KindCopyFile, Src: "zshrc", Dest: "~/.zshrc"},
		{Name: "ctf", Kind: config.KindEnsureDirs, Paths: []string{"CTF/HTB"}},
	}
}

func TestBuildSteps(t *testing.T) {
	t.Parallel()

	h := newHarness()
	specs := []config.StepSpec{
		{Name: "a", Kind: config.KindRequireFiles, Paths: []string{"/x"}},
		{Name: "b", Kind: config.KindPackages, Packages: []string{"zsh"}},
		{Name: "c", Kind: config.KindCopyFile, Src: "/x", Dest: "/y", Mode: "0600"},
		{Name: "d", Kind: config.KindCopyTree, Src: "/x", Dest: "/y"},
		{Name: "e", Kind: config.KindEnsureDirs, Paths: []string{"/z"}},
		{Name: "f", Kind: config.KindSettings, Src: "/x", Target: "/org/"},
		{Name: "g", Kind: config.KindConfirm, Question: "?", Steps: []config.StepSpec{
			{Name: "h", Kind: config.KindPackages, Packages: []string{"bat"}},
		}},
	}

	built, err := app.BuildSteps(specs, app.Collaborators{FS: h.fs, Packages: h.pm, Settings: h.settings, Prompter: h.prompter})
	require.NoError(t, err)
	require.Len(t, built, 7)

	assert.IsType(t, &steps.RequireFilesStep{}, built[0])
	assert.IsType(t, &steps.PackagesStep{}, built[1])
	assert.IsType(t, &steps.CopyFileStep{}, built[2])
	assert.IsType(t, &steps.CopyTreeStep{}, built[3])
	assert.IsType(t, &steps.EnsureDirsStep{}, built[4])
	assert.IsType(t, &steps.SettingsStep{}, built[5])
	require.IsType(t, &steps.ConfirmStep{}, built[6])
	assert.Len(t, built[6].(*steps.ConfirmStep).Steps(), 1)
	for i, s := range built {
		assert.Equal(t, specs[i].Name, s.Name())
	}
}

func TestBuildSteps_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := app.BuildSteps([]config.StepSpec{{Name: "x", Kind: "download"}}, app.Collaborators{})

	require.Error(t, err)
	assert.True(t, config.IsUserError(err, config.ErrCodeStepUnknown))
	assert.Contains(t, err.Error(), `step 1 "x"`)
}

func TestInstall_Completes(t *testing.T) {
	t.Parallel()

	h := newHarness()
	state, err := h.app.Install(context.Background(), project(standardSpecs()...), app.InstallOptions{})

	require.NoError(t, err)
	require.True(t, state.Completed(), state.Reason())
	assert.Equal(t, app.ExitOK, app.ExitCode(state))

	content, ok := h.fs.Content("/home/alice/.zshrc")
	assert.True(t, ok)
	assert.Equal(t, "export ZSH_THEME=kali\n", content)
	assert.True(t, h.fs.IsDir("/home/alice/CTF/HTB"))
	assert.True(t, h.pm.Installed("kitty"))

	assert.Contains(t, h.fs.Ops(), "mkdir:/tmp/dotsetup-alice")
	assert.Contains(t, h.fs.Ops(), "removeall:/tmp/dotsetup-alice")
	assert.False(t, h.fs.Exists("/tmp/dotsetup-alice"))

	require.Len(t, h.history.runs, 1)
	assert.Equal(t, state.ID, h.history.runs[0].ID)
	assert.Equal(t, "completed", h.history.runs[0].Outcome)
	assert.Equal(t, 3, h.history.runs[0].Applied)
	assert.Equal(t, 1, h.history.runs[0].Satisfied)

	assert.Contains(t, h.logs.String(), "install started")
	assert.Contains(t, h.logs.String(), "run finished")
}

func TestInstall_FailureRollsBack(t *testing.T) {
	t.Parallel()

	h := newHarness()
	specs := append(standardSpecs(), config.StepSpec{
		Name: "wallpaper", Kind: config.KindRequireFiles, Paths: []string{"wallpaper.png"},
	})

	state, err := h.app.Install(context.Background(), project(specs...), app.InstallOptions{})

	require.NoError(t, err)
	require.True(t, state.Failed())
	assert.Equal(t, "wallpaper", state.FailedStep)
	assert.Equal(t, app.ExitFailed, app.ExitCode(state))
	assert.True(t, state.Rollback.Clean())

	assert.False(t, h.fs.Exists("/home/alice/.zshrc"))
	assert.False(t, h.fs.Exists("/home/alice/CTF"))
	assert.False(t, h.pm.Installed("kitty"))
	assert.True(t, h.pm.Installed("zsh"))
	assert.False(t, h.fs.Exists("/tmp/dotsetup-alice"))

	require.Len(t, h.history.runs, 1)
	run := h.history.runs[0]
	assert.Equal(t, "failed", run.Outcome)
	assert.Equal(t, "wallpaper", run.FailedStep)
	assert.True(t, run.RolledBack)
	assert.Len(t, run.Actions, len(state.Actions))

	assert.Contains(t, h.logs.String(), "[ERROR] step failed")
	assert.Contains(t, h.logs.String(), "[WARN] rolling back")
}

func TestInstall_InterruptedExitCode(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.pm.OnInstall(func(name string) {
		if name == "kitty" {
			cancel()
		}
	})

	state, err := h.app.Install(ctx, project(standardSpecs()...), app.InstallOptions{})

	require.NoError(t, err)
	require.True(t, state.Interrupted())
	assert.Equal(t, app.ExitInterrupted, app.ExitCode(state))
	assert.False(t, h.pm.Installed("kitty"))
	require.Len(t, h.history.runs, 1, "history is written even after cancellation")
	assert.Equal(t, "interrupted", h.history.runs[0].Outcome)
}

func TestInstall_DryRun(t *testing.T) {
	t.Parallel()

	h := newHarness()
	state, err := h.app.Install(context.Background(), project(standardSpecs()...), app.InstallOptions{DryRun: true})

	require.NoError(t, err)
	require.True(t, state.Completed())
	assert.Empty(t, state.Actions)
	assert.False(t, h.pm.Installed("kitty"))
	assert.NotContains(t, h.fs.Ops(), "mkdir:/tmp/dotsetup-alice")
	require.Len(t, h.history.runs, 1)
	assert.True(t, h.history.runs[0].DryRun)
}

func TestInstall_ExistingTempDirKept(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.fs.AddDir("/tmp/dotsetup-alice")

	_, err := h.app.Install(context.Background(), project(standardSpecs()...), app.InstallOptions{})

	require.NoError(t, err)
	assert.True(t, h.fs.IsDir("/tmp/dotsetup-alice"))
}

func TestInstall_TempDirError(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.fs.FailOn("mkdir", "/tmp/dotsetup-alice", errors.New("read-only"))

	_, err := h.app.Install(context.Background(), project(standardSpecs()...), app.InstallOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create temp directory")
	assert.Empty(t, h.history.runs)
	assert.False(t, h.pm.Installed("kitty"))
}

func TestInstall_HistoryFailureOnlyWarns(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.history.err = errors.New("database is locked")

	state, err := h.app.Install(context.Background(), project(standardSpecs()...), app.InstallOptions{})

	require.NoError(t, err)
	assert.True(t, state.Completed())
	assert.Contains(t, h.logs.String(), "[WARN] failed to record run history")
	assert.Contains(t, h.logs.String(), "database is locked")
}

func TestInstall_ConfirmDeclined(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	specs := []config.StepSpec{
		{Name: "panel", Kind: config.KindConfirm, Question: "Install Dash to Panel?", Default: true, Steps: []config.StepSpec{
			{Name: "panel settings", Kind: config.KindSettings, Src: "panel.conf", Target: "/org/gnome/shell/extensions/dash-to-panel/"},
		}},
	}

	state, err := h.app.Install(context.Background(), project(specs...), app.InstallOptions{})

	require.NoError(t, err)
	require.True(t, state.Completed())
	assert.Equal(t, []string{"Install Dash to Panel?"}, h.prompter.Questions())
	assert.Empty(t, h.settings.Applied())
}

func TestPlan(t *testing.T) {
	t.Parallel()

	h := newHarness()
	specs := append(standardSpecs(),
		config.StepSpec{Name: "wallpaper", Kind: config.KindRequireFiles, Paths: []string{"wallpaper.png"}},
		config.StepSpec{Name: "extras", Kind: config.KindConfirm, Question: "?", Steps: []config.StepSpec{
			{Name: "zsh again", Kind: config.KindPackages, Packages: []string{"zsh"}},
		}},
	)

	entries, err := h.app.Plan(context.Background(), project(specs...))

	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, execution.StatusSatisfied, entries[0].Status)
	assert.Equal(t, execution.StatusNeedsApply, entries[1].Status)
	assert.Equal(t, config.KindPackages, entries[1].Kind)
	assert.Equal(t, execution.StatusFailed, entries[4].Status)
	assert.Error(t, entries[4].Err)
	require.Len(t, entries[5].Children, 1)
	assert.Equal(t, execution.StatusSatisfied, entries[5].Children[0].Status)

	needsApply, satisfied, failed := app.PlanSummary(entries)
	assert.Equal(t, 3, needsApply)
	assert.Equal(t, 2, satisfied)
	assert.Equal(t, 1, failed)

	assert.Empty(t, h.fs.Ops(), "plan must not mutate anything")
	assert.Empty(t, h.prompter.Questions(), "plan must not prompt")
	assert.False(t, h.pm.Installed("kitty"))
}

func TestNew_NilLogger(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDir("/home/alice")
	d := app.New(app.Collaborators{
		FS:       fs,
		Packages: mocks.NewPackageManager(),
		Settings: mocks.NewSettingsBackend(),
		Prompter: mocks.NewPrompter(),
	}, nil)

	state, err := d.Install(context.Background(), project(config.StepSpec{
		Name: "ctf", Kind: config.KindEnsureDirs, Paths: []string{"CTF"},
	}), app.InstallOptions{})
	require.NoError(t, err)
	assert.True(t, state.Completed())
	assert.True(t, fs.IsDir("/home/alice/CTF"))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, app.ExitOK, app.ExitCodeForError(nil))
	assert.Equal(t, app.ExitConfig, app.ExitCodeForError(config.NewConfigNotFoundError("x")))
	list := config.NewErrorList()
	list.AddInvalid("steps[0].name", "name is required")
	assert.Equal(t, app.ExitConfig, app.ExitCodeForError(list.AsError()))
	assert.Equal(t, app.ExitFailed, app.ExitCodeForError(errors.New("disk full")))
}
