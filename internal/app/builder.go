package app

import (
	"fmt"

	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/dotsetup/dotsetup/internal/steps"
)

// Collaborators are the adapters steps and rollback talk to.
type Collaborators struct {
	FS       ports.FileSystem
	Packages ports.PackageManager
	Settings ports.SettingsBackend
	Prompter ports.Prompter
}

// BuildSteps turns expanded manifest entries into pipeline steps, in
// manifest order. Every step is built before the run starts.
func BuildSteps(specs []config.StepSpec, c Collaborators) ([]execution.Step, error) {
	out := make([]execution.Step, 0, len(specs))
	for i, spec := range specs {
		step, err := buildStep(spec, c)
		if err != nil {
			return nil, fmt.Errorf("step %d %q: %w", i+1, spec.Name, err)
		}
		out = append(out, step)
	}
	return out, nil
}

func buildStep(spec config.StepSpec, c Collaborators) (execution.Step, error) {
	switch spec.Kind {
	case config.KindRequireFiles:
		return steps.NewRequireFilesStep(spec.Name, spec.Paths, c.FS), nil

	case config.KindPackages:
		return steps.NewPackagesStep(spec.Name, spec.Packages, spec.Refresh, c.Packages), nil

	case config.KindCopyFile:
		mode, err := spec.FileMode()
		if err != nil {
			return nil, config.NewInvalidError(spec.Name+".mode", err.Error())
		}
		return steps.NewCopyFileStep(spec.Name, spec.Src, spec.Dest, spec.BackupEnabled(), mode, c.FS), nil

	case config.KindCopyTree:
		return steps.NewCopyTreeStep(spec.Name, spec.Src, spec.Dest, c.FS), nil

	case config.KindEnsureDirs:
		return steps.NewEnsureDirsStep(spec.Name, spec.Paths, c.FS), nil

	case config.KindSettings:
		return steps.NewSettingsStep(spec.Name, spec.Src, spec.Target, c.FS, c.Settings), nil

	case config.KindConfirm:
		nested, err := BuildSteps(spec.Steps, c)
		if err != nil {
			return nil, err
		}
		return steps.NewConfirmStep(spec.Name, spec.Question, spec.Default, nested, c.Prompter), nil
	}

	return nil, config.NewStepUnknownError(spec.Name, spec.Kind)
}
