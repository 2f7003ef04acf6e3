package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func failedRun(id string, started time.Time) execution.RunState {
	stepErr := &execution.StepError{
		Index: 1,
		Step:  "install packages",
		Phase: execution.PhaseApply,
		Err:   errors.New("install bat: exit status 100"),
	}
	return execution.RunState{
		ID:          id,
		State:       execution.StateFailed,
		FailedIndex: 1,
		FailedStep:  "install packages",
		Err:         stepErr,
		Results: []execution.StepResult{
			execution.NewStepResult(0, "create dirs", execution.StatusApplied, nil),
			execution.NewStepResult(1, "install packages", execution.StatusFailed, stepErr),
		},
		Actions: []ledger.Action{
			ledger.DirectoryCreated{Path: "/home/u/.config/kitty"},
			ledger.PackageInstalled{Name: "zsh"},
		},
		Rollback: execution.RollbackReport{Results: []execution.RollbackResult{
			{Action: ledger.PackageInstalled{Name: "zsh"}},
			{Action: ledger.DirectoryCreated{Path: "/home/u/.config/kitty"}, Err: errors.New("busy")},
		}},
		RolledBack: true,
		Started:    started,
		Finished:   started.Add(3 * time.Second),
	}
}

func TestFromRunState(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	run := FromRunState(failedRun("r1", started), false)

	assert.Equal(t, "r1", run.ID)
	assert.Equal(t, string(execution.StateFailed), run.Outcome)
	assert.Equal(t, "install packages", run.FailedStep)
	assert.Contains(t, run.Reason, "exit status 100")
	assert.Equal(t, 1, run.Applied)
	assert.Equal(t, 0, run.Satisfied)
	assert.Equal(t, 1, run.Failed)
	assert.True(t, run.RolledBack)
	assert.Equal(t, 1, run.RollbackFailures)
	assert.Equal(t, 3*time.Second, run.Duration())

	require.Len(t, run.Actions, 2)
	assert.Equal(t, 0, run.Actions[0].Seq)
	assert.Equal(t, string(ledger.KindDirectoryCreated), run.Actions[0].Kind)
	assert.Equal(t, "installed package zsh", run.Actions[1].Detail)
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, FromRunState(failedRun("r1", started), false)))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Outcome)
	assert.True(t, got.StartedAt.Equal(started))
	require.Len(t, got.Actions, 2)
	assert.Equal(t, "created directory /home/u/.config/kitty", got.Actions[0].Detail)
	assert.Equal(t, "installed package zsh", got.Actions[1].Detail)
}

func TestStore_GetMissing(t *testing.T) {
	store := openStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestStore_GetByPrefix(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, FromRunState(failedRun("6f1c2a9e-aaaa", base), false)))
	require.NoError(t, store.Record(ctx, FromRunState(failedRun("6f1c2a9e-bbbb", base.Add(time.Hour)), false)))
	require.NoError(t, store.Record(ctx, FromRunState(failedRun("0b7d0000-cccc", base), false)))

	got, err := store.Get(ctx, "0b7d")
	require.NoError(t, err)
	assert.Equal(t, "0b7d0000-cccc", got.ID)

	got, err = store.Get(ctx, "6f1c2a9e")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2a9e-bbbb", got.ID)
	assert.Len(t, got.Actions, 2)
}

func TestStore_GetWildcardsMatchLiterally(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, FromRunState(failedRun("6f1c2a9e-aaaa", base), false)))

	for _, id := range []string{"%", "_", "6f1c_a9e", "6f%"} {
		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound, id)
	}
}

func TestStore_RecordDuplicateID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	run := failedRun("dup", time.Now())

	require.NoError(t, store.Record(ctx, FromRunState(run, false)))
	err := store.Record(ctx, FromRunState(run, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record run dup")
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		state := execution.RunState{
			ID:       id,
			State:    execution.StateCompleted,
			Started:  base.Add(time.Duration(i) * time.Hour),
			Finished: base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		require.NoError(t, store.Record(ctx, FromRunState(state, i == 2)))
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.True(t, runs[0].DryRun)
	assert.Equal(t, "b", runs[1].ID)
	assert.Empty(t, runs[0].Actions)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, FromRunState(execution.RunState{
		ID: "keep", State: execution.StateInterrupted, Started: time.Now(), Finished: time.Now(),
	}, false)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "interrupted", got.Outcome)
	assert.Equal(t, "interrupted", got.Reason)
}
