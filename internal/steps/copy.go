package steps

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/domain/ledger"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// BackupTimeFormat is the timestamp suffix of backup files:
// <path>.bak.YYYYMMDD_HHMMSS.
const BackupTimeFormat = "20060102_150405"

// CopyFileStep installs a single file. A differing file already at the
// destination is moved aside to a timestamped backup first.
type CopyFileStep struct {
	name   string
	src    string
	dest   string
	backup bool
	mode   os.FileMode
	fs     ports.FileSystem
	now    func() time.Time
}

// NewCopyFileStep creates a new CopyFileStep. A zero mode keeps the source
// file's permission bits.
func NewCopyFileStep(name, src, dest string, backup bool, mode os.FileMode, fs ports.FileSystem) *CopyFileStep {
	return &CopyFileStep{
		name:   name,
		src:    src,
		dest:   dest,
		backup: backup,
		mode:   mode,
		fs:     fs,
		now:    time.Now,
	}
}

// WithClock returns a copy that takes backup timestamps from now.
func (s *CopyFileStep) WithClock(now func() time.Time) *CopyFileStep {
	c := *s
	c.now = now
	return &c
}

// Name returns the step name.
func (s *CopyFileStep) Name() string {
	return s.name
}

// Check determines if the destination already has the source content.
func (s *CopyFileStep) Check(_ execution.RunContext) (execution.StepStatus, error) {
	if !s.fs.Exists(s.src) {
		return execution.StatusFailed, fmt.Errorf("source %s not found", s.src)
	}
	if !s.fs.Exists(s.dest) {
		return execution.StatusNeedsApply, nil
	}
	if s.fs.IsDir(s.dest) {
		return execution.StatusFailed, fmt.Errorf("destination %s is a directory", s.dest)
	}

	srcHash, err := s.fs.FileHash(s.src)
	if err != nil {
		return execution.StatusFailed, err
	}
	destHash, err := s.fs.FileHash(s.dest)
	if err != nil {
		return execution.StatusFailed, err
	}

	if srcHash == destHash {
		return execution.StatusSatisfied, nil
	}
	if !s.backup {
		return execution.StatusFailed, fmt.Errorf("destination %s exists and differs (enable backup to replace it)", s.dest)
	}
	return execution.StatusNeedsApply, nil
}

// Apply copies the file, creating missing parent directories and backing
// up a pre-existing destination.
func (s *CopyFileStep) Apply(rc execution.RunContext) error {
	parent := filepath.Dir(s.dest)
	if root := missingRoot(s.fs, parent); root != "" {
		if err := s.fs.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", parent, err)
		}
		rc.Record(ledger.DirectoryCreated{Path: root})
	}

	if s.fs.Exists(s.dest) {
		if !s.backup {
			return fmt.Errorf("destination %s exists (enable backup to replace it)", s.dest)
		}
		backupPath := s.dest + ".bak." + s.now().Format(BackupTimeFormat)
		if err := s.fs.Rename(s.dest, backupPath); err != nil {
			return fmt.Errorf("failed to backup %s: %w", s.dest, err)
		}
		rc.Record(ledger.BackupTaken{Path: s.dest, BackupPath: backupPath})
	}

	if err := s.write(); err != nil {
		return err
	}
	rc.Record(ledger.FileCreated{Path: s.dest})
	return nil
}

func (s *CopyFileStep) write() error {
	if s.mode == 0 {
		if err := s.fs.CopyFile(s.src, s.dest); err != nil {
			return fmt.Errorf("failed to copy %s: %w", s.src, err)
		}
		return nil
	}

	content, err := s.fs.ReadFile(s.src)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	if err := s.fs.WriteFile(s.dest, content, s.mode); err != nil {
		return fmt.Errorf("failed to write destination: %w", err)
	}
	return nil
}

// CopyTreeStep installs a directory tree. An existing destination
// directory counts as installed and is never touched.
type CopyTreeStep struct {
	name string
	src  string
	dest string
	fs   ports.FileSystem
}

// NewCopyTreeStep creates a new CopyTreeStep.
func NewCopyTreeStep(name, src, dest string, fs ports.FileSystem) *CopyTreeStep {
	return &CopyTreeStep{name: name, src: src, dest: dest, fs: fs}
}

// Name returns the step name.
func (s *CopyTreeStep) Name() string {
	return s.name
}

// Check determines if the destination directory exists.
func (s *CopyTreeStep) Check(_ execution.RunContext) (execution.StepStatus, error) {
	if !s.fs.IsDir(s.src) {
		return execution.StatusFailed, fmt.Errorf("source directory %s not found", s.src)
	}
	if s.fs.IsDir(s.dest) {
		return execution.StatusSatisfied, nil
	}
	if s.fs.Exists(s.dest) {
		return execution.StatusFailed, fmt.Errorf("destination %s exists and is not a directory", s.dest)
	}
	return execution.StatusNeedsApply, nil
}

// Apply copies the tree and records the created directory.
func (s *CopyTreeStep) Apply(rc execution.RunContext) error {
	parent := filepath.Dir(s.dest)
	if root := missingRoot(s.fs, parent); root != "" {
		if err := s.fs.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", parent, err)
		}
		rc.Record(ledger.DirectoryCreated{Path: root})
	}

	if err := s.fs.CopyTree(s.src, s.dest); err != nil {
		return fmt.Errorf("failed to copy %s: %w", s.src, err)
	}
	rc.Record(ledger.DirectoryCreated{Path: s.dest})
	return nil
}

// EnsureDirsStep creates a set of directories.
type EnsureDirsStep struct {
	name  string
	paths []string
	fs    ports.FileSystem
}

// NewEnsureDirsStep creates a new EnsureDirsStep.
func NewEnsureDirsStep(name string, paths []string, fs ports.FileSystem) *EnsureDirsStep {
	return &EnsureDirsStep{name: name, paths: paths, fs: fs}
}

// Name returns the step name.
func (s *EnsureDirsStep) Name() string {
	return s.name
}

// Check reports satisfied when every directory exists.
func (s *EnsureDirsStep) Check(_ execution.RunContext) (execution.StepStatus, error) {
	status := execution.StatusSatisfied
	for _, p := range s.paths {
		switch {
		case s.fs.IsDir(p):
		case s.fs.Exists(p):
			return execution.StatusFailed, fmt.Errorf("%s exists and is not a directory", p)
		default:
			status = execution.StatusNeedsApply
		}
	}
	return status, nil
}

// Apply creates each missing directory and records its topmost new
// ancestor.
func (s *EnsureDirsStep) Apply(rc execution.RunContext) error {
	for _, p := range s.paths {
		if err := rc.Context().Err(); err != nil {
			return err
		}

		root := missingRoot(s.fs, p)
		if root == "" {
			continue
		}
		if err := s.fs.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p, err)
		}
		rc.Record(ledger.DirectoryCreated{Path: root})
	}
	return nil
}

var (
	_ execution.Step = (*CopyFileStep)(nil)
	_ execution.Step = (*CopyTreeStep)(nil)
	_ execution.Step = (*EnsureDirsStep)(nil)
)
