package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/dotsetup/dotsetup/internal/ports"
)

// PackageManager is an in-memory test double for ports.PackageManager.
type PackageManager struct {
	mu         sync.Mutex
	installed  map[string]bool
	installErr map[string]error
	removeErr  map[string]error
	refreshErr error
	calls      []string
	onInstall  func(name string)
}

// NewPackageManager creates a PackageManager with the given packages
// already installed.
func NewPackageManager(installed ...string) *PackageManager {
	m := &PackageManager{
		installed:  make(map[string]bool),
		installErr: make(map[string]error),
		removeErr:  make(map[string]error),
	}
	for _, name := range installed {
		m.installed[name] = true
	}
	return m
}

// FailInstall makes Install(name) fail with err.
func (m *PackageManager) FailInstall(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.installErr[name] = err
}

// FailRemove makes Remove(name) fail with err.
func (m *PackageManager) FailRemove(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr[name] = err
}

// FailRefresh makes Refresh fail with err.
func (m *PackageManager) FailRefresh(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshErr = err
}

// OnInstall registers a hook called after each successful install.
func (m *PackageManager) OnInstall(fn func(name string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onInstall = fn
}

// Installed reports whether name is currently installed.
func (m *PackageManager) Installed(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installed[name]
}

// Calls returns the recorded operations as "op:name".
func (m *PackageManager) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// IsInstalled implements ports.PackageManager.
func (m *PackageManager) IsInstalled(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installed[name], nil
}

// Install implements ports.PackageManager.
func (m *PackageManager) Install(ctx context.Context, name string) error {
	m.mu.Lock()
	m.calls = append(m.calls, "install:"+name)
	if err := ctx.Err(); err != nil {
		m.mu.Unlock()
		return err
	}
	if err, ok := m.installErr[name]; ok {
		m.mu.Unlock()
		return err
	}
	m.installed[name] = true
	hook := m.onInstall
	m.mu.Unlock()

	if hook != nil {
		hook(name)
	}
	return nil
}

// Remove implements ports.PackageManager.
func (m *PackageManager) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "remove:"+name)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := m.removeErr[name]; ok {
		return err
	}
	if !m.installed[name] {
		return fmt.Errorf("package %s is not installed", name)
	}
	delete(m.installed, name)
	return nil
}

// Refresh implements ports.PackageManager.
func (m *PackageManager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "refresh")
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.refreshErr
}

var _ ports.PackageManager = (*PackageManager)(nil)
