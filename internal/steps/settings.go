package steps

import (
	"fmt"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// SettingsStep loads a desktop settings blob into the settings backend.
// Settings writes have no compensating action and are not recorded.
type SettingsStep struct {
	name    string
	src     string
	target  string
	fs      ports.FileSystem
	backend ports.SettingsBackend
}

// NewSettingsStep creates a new SettingsStep.
func NewSettingsStep(name, src, target string, fs ports.FileSystem, backend ports.SettingsBackend) *SettingsStep {
	return &SettingsStep{name: name, src: src, target: target, fs: fs, backend: backend}
}

// Name returns the step name.
func (s *SettingsStep) Name() string {
	return s.name
}

// Check verifies the blob exists. Applied settings cannot be detected, so
// the step always needs apply.
func (s *SettingsStep) Check(_ execution.RunContext) (execution.StepStatus, error) {
	if !s.fs.Exists(s.src) {
		return execution.StatusFailed, fmt.Errorf("settings file %s not found", s.src)
	}
	return execution.StatusNeedsApply, nil
}

// Apply reads the blob and hands it to the backend.
func (s *SettingsStep) Apply(rc execution.RunContext) error {
	blob, err := s.fs.ReadFile(s.src)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if err := s.backend.Apply(rc.Context(), blob, s.target); err != nil {
		return fmt.Errorf("failed to apply settings to %s: %w", s.target, err)
	}
	return nil
}

var _ execution.Step = (*SettingsStep)(nil)
