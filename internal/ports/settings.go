package ports

import "context"

// SettingsBackend applies an opaque desktop settings blob under a target
// path (a dconf directory such as /org/gnome/shell/extensions/).
type SettingsBackend interface {
	Apply(ctx context.Context, blob []byte, target string) error
}
