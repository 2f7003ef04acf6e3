package steps

import (
	"fmt"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/domain/ledger"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// PackagesStep installs a batch of packages, optionally refreshing the
// repository index first. Packages that are already installed are left
// alone and never recorded, so rollback only removes what this run added.
type PackagesStep struct {
	name     string
	packages []string
	refresh  bool
	pm       ports.PackageManager
}

// NewPackagesStep creates a new PackagesStep.
func NewPackagesStep(name string, packages []string, refresh bool, pm ports.PackageManager) *PackagesStep {
	return &PackagesStep{name: name, packages: packages, refresh: refresh, pm: pm}
}

// Name returns the step name.
func (s *PackagesStep) Name() string {
	return s.name
}

// Packages returns the packages in install order.
func (s *PackagesStep) Packages() []string {
	return s.packages
}

// Check reports satisfied when every package is installed.
func (s *PackagesStep) Check(rc execution.RunContext) (execution.StepStatus, error) {
	for _, name := range s.packages {
		installed, err := s.pm.IsInstalled(rc.Context(), name)
		if err != nil {
			return execution.StatusFailed, fmt.Errorf("query %s: %w", name, err)
		}
		if !installed {
			return execution.StatusNeedsApply, nil
		}
	}
	return execution.StatusSatisfied, nil
}

// Apply installs the missing packages one by one and records each install.
func (s *PackagesStep) Apply(rc execution.RunContext) error {
	ctx := rc.Context()

	if s.refresh {
		if err := s.pm.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh package index: %w", err)
		}
	}

	for _, name := range s.packages {
		if err := ctx.Err(); err != nil {
			return err
		}

		installed, err := s.pm.IsInstalled(ctx, name)
		if err != nil {
			return fmt.Errorf("query %s: %w", name, err)
		}
		if installed {
			continue
		}

		if err := s.pm.Install(ctx, name); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
		rc.Record(ledger.PackageInstalled{Name: name})
	}

	return nil
}

var _ execution.Step = (*PackagesStep)(nil)
