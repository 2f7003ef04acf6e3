package steps

import (
	"fmt"
	"strings"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// RequireFilesStep verifies that source files the later steps read are
// present. It never mutates anything.
type RequireFilesStep struct {
	name  string
	paths []string
	fs    ports.FileSystem
}

// NewRequireFilesStep creates a new RequireFilesStep.
func NewRequireFilesStep(name string, paths []string, fs ports.FileSystem) *RequireFilesStep {
	return &RequireFilesStep{name: name, paths: paths, fs: fs}
}

// Name returns the step name.
func (s *RequireFilesStep) Name() string {
	return s.name
}

// Check fails when any required path is missing.
func (s *RequireFilesStep) Check(_ execution.RunContext) (execution.StepStatus, error) {
	if missing := s.missing(); len(missing) > 0 {
		return execution.StatusFailed, fmt.Errorf("missing required files: %s", strings.Join(missing, ", "))
	}
	return execution.StatusSatisfied, nil
}

// Apply re-verifies the paths; there is nothing to install.
func (s *RequireFilesStep) Apply(_ execution.RunContext) error {
	if missing := s.missing(); len(missing) > 0 {
		return fmt.Errorf("missing required files: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *RequireFilesStep) missing() []string {
	var missing []string
	for _, p := range s.paths {
		if !s.fs.Exists(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

var _ execution.Step = (*RequireFilesStep)(nil)
