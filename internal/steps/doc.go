// Package steps provides the concrete installation steps: required-file
// checks, apt package batches, file and directory installs, desktop
// settings, and prompt-gated groups.
//
// Every step detects its own target state in Check and records each
// reversible effect in the run's ledger right after that effect succeeded.
package steps

import (
	"path/filepath"

	"github.com/dotsetup/dotsetup/internal/ports"
)

// missingRoot returns the topmost ancestor of dir (dir included) that does
// not exist, or "" when dir already exists. Removing that path undoes a
// MkdirAll of dir.
func missingRoot(fs ports.FileSystem, dir string) string {
	root := ""
	for d := dir; !fs.Exists(d); {
		root = d
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return root
}
