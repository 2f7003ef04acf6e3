package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/ledger"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// RollbackResult contains the result of undoing one ledger entry.
type RollbackResult struct {
	Action ledger.Action
	// Missing is true when the artifact was already gone and nothing
	// had to be undone.
	Missing  bool
	Err      error
	Duration time.Duration
}

// Success returns true if the inverse operation did not fail.
func (r RollbackResult) Success() bool {
	return r.Err == nil
}

// RollbackReport lists what the Compensator undid, most recent first.
type RollbackReport struct {
	Results []RollbackResult
}

// Len returns the number of processed entries.
func (r RollbackReport) Len() int {
	return len(r.Results)
}

// Failures returns the entries whose inverse operation failed.
func (r RollbackReport) Failures() []RollbackResult {
	var out []RollbackResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Clean returns true if every inverse operation succeeded.
func (r RollbackReport) Clean() bool {
	return len(r.Failures()) == 0
}

// Compensator undoes ledger entries in reverse order of recording.
type Compensator struct {
	fs       ports.FileSystem
	packages ports.PackageManager
	notify   func(RollbackResult)
}

// NewCompensator creates a Compensator using the given collaborators.
func NewCompensator(fs ports.FileSystem, packages ports.PackageManager) *Compensator {
	return &Compensator{fs: fs, packages: packages}
}

// withNotify returns a Compensator that reports each result as it happens.
func (c *Compensator) withNotify(fn func(RollbackResult)) *Compensator {
	return &Compensator{fs: c.fs, packages: c.packages, notify: fn}
}

// Rollback applies exactly one inverse operation per entry, most recent
// first. A failing inverse is recorded and the loop moves on; Rollback
// never stops early and never edits the ledger.
func (c *Compensator) Rollback(ctx context.Context, entries ledger.Entries) RollbackReport {
	report := RollbackReport{Results: make([]RollbackResult, 0, entries.Len())}

	for action := range entries.Reverse() {
		start := time.Now()
		missing, err := c.undo(ctx, action)
		res := RollbackResult{
			Action:   action,
			Missing:  missing,
			Err:      err,
			Duration: time.Since(start),
		}
		report.Results = append(report.Results, res)
		if c.notify != nil {
			c.notify(res)
		}
	}

	return report
}

func (c *Compensator) undo(ctx context.Context, action ledger.Action) (bool, error) {
	switch a := action.(type) {
	case ledger.FileCreated:
		if !c.fs.Exists(a.Path) {
			return true, nil
		}
		if err := c.fs.Remove(a.Path); err != nil {
			return false, fmt.Errorf("remove %s: %w", a.Path, err)
		}
		return false, nil

	case ledger.DirectoryCreated:
		if !c.fs.Exists(a.Path) {
			return true, nil
		}
		if err := c.fs.RemoveAll(a.Path); err != nil {
			return false, fmt.Errorf("remove directory %s: %w", a.Path, err)
		}
		return false, nil

	case ledger.BackupTaken:
		if !c.fs.Exists(a.BackupPath) {
			return false, fmt.Errorf("backup %s of %s is missing", a.BackupPath, a.Path)
		}
		if err := c.fs.Rename(a.BackupPath, a.Path); err != nil {
			return false, fmt.Errorf("restore %s from %s: %w", a.Path, a.BackupPath, err)
		}
		return false, nil

	case ledger.PackageInstalled:
		if err := c.packages.Remove(ctx, a.Name); err != nil {
			return false, fmt.Errorf("remove package %s: %w", a.Name, err)
		}
		return false, nil
	}

	return false, fmt.Errorf("unknown action kind %T", action)
}
