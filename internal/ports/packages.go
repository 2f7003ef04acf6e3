package ports

import "context"

// PackageManager installs and removes system packages.
type PackageManager interface {
	// IsInstalled reports whether the package is currently installed.
	IsInstalled(ctx context.Context, name string) (bool, error)
	Install(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	// Refresh updates the package index.
	Refresh(ctx context.Context) error
}
