package mocks

import (
	"context"
	"sync"

	"github.com/dotsetup/dotsetup/internal/ports"
)

// SettingsApplication records one SettingsBackend.Apply call.
type SettingsApplication struct {
	Target string
	Blob   string
}

// SettingsBackend is a test double for ports.SettingsBackend.
type SettingsBackend struct {
	mu      sync.Mutex
	applied []SettingsApplication
	errs    map[string]error
}

// NewSettingsBackend creates a SettingsBackend mock.
func NewSettingsBackend() *SettingsBackend {
	return &SettingsBackend{errs: make(map[string]error)}
}

// FailOn makes Apply for target return err.
func (m *SettingsBackend) FailOn(target string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[target] = err
}

// Applied returns the recorded applications in order.
func (m *SettingsBackend) Applied() []SettingsApplication {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SettingsApplication, len(m.applied))
	copy(out, m.applied)
	return out
}

// Apply implements ports.SettingsBackend.
func (m *SettingsBackend) Apply(ctx context.Context, blob []byte, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[target]; ok {
		return err
	}
	m.applied = append(m.applied, SettingsApplication{Target: target, Blob: string(blob)})
	return nil
}

var _ ports.SettingsBackend = (*SettingsBackend)(nil)
