// Package apt implements ports.PackageManager on top of dpkg and apt-get.
package apt

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/dotsetup/dotsetup/internal/validation"
)

// statusFormat makes dpkg-query print only the package's status word.
const statusFormat = "-f=${db:Status-Status}"

// Manager queries packages with dpkg-query and changes them with apt-get.
type Manager struct {
	query ports.CommandRunner
	admin ports.CommandRunner
}

// NewManager creates a Manager. query runs unprivileged lookups; admin
// runs installs and removals, usually a command.SudoRunner.
func NewManager(query, admin ports.CommandRunner) *Manager {
	return &Manager{query: query, admin: admin}
}

// IsInstalled reports whether dpkg lists the package as installed.
func (m *Manager) IsInstalled(ctx context.Context, name string) (bool, error) {
	if err := validation.ValidatePackageName(name); err != nil {
		return false, fmt.Errorf("invalid package name: %w", err)
	}

	result, err := m.query.Run(ctx, "dpkg-query", "-W", statusFormat, name)
	if err != nil {
		return false, err
	}

	// dpkg-query returns exit code 1 if package not found
	if !result.Success() {
		return false, nil
	}
	return strings.TrimSpace(result.Stdout) == "installed", nil
}

// Install installs a single package non-interactively.
func (m *Manager) Install(ctx context.Context, name string) error {
	return m.aptGet(ctx, "install", name)
}

// Remove removes a single package.
func (m *Manager) Remove(ctx context.Context, name string) error {
	return m.aptGet(ctx, "remove", name)
}

// Refresh updates the package index.
func (m *Manager) Refresh(ctx context.Context) error {
	result, err := m.admin.Run(ctx, "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update failed: %s", result.Output())
	}
	return nil
}

func (m *Manager) aptGet(ctx context.Context, op, name string) error {
	// Validate package name before execution to prevent command injection
	if err := validation.ValidatePackageName(name); err != nil {
		return fmt.Errorf("invalid package name: %w", err)
	}

	result, err := m.admin.Run(ctx, "apt-get", op, "-y", name)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get %s %s failed: %s", op, name, result.Output())
	}
	return nil
}

// Ensure Manager implements ports.PackageManager.
var _ ports.PackageManager = (*Manager)(nil)
