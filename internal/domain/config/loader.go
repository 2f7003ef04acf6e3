package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultManifestNames are tried in order when no path is given.
var DefaultManifestNames = []string{"dotsetup.yaml", "dotsetup.yml", "dotsetup.toml"}

// Loader loads configuration from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Find returns the first default manifest name present in dir.
func (l *Loader) Find(dir string) (string, error) {
	for _, name := range DefaultManifestNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", NewConfigNotFoundError(filepath.Join(dir, DefaultManifestNames[0]))
}

// LoadManifest loads a manifest from the given path. The format follows
// the file extension.
func (l *Loader) LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewConfigNotFoundError(path).WithUnderlying(err)
		}
		return nil, err
	}

	format := FormatFromPath(path)
	manifest, err := ParseManifest(data, format)
	if err != nil {
		if format == FormatTOML {
			return nil, NewConfigParseError(path, err)
		}
		return nil, NewYAMLParseError(path, err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		manifest.Dir = filepath.Dir(abs)
	} else {
		manifest.Dir = filepath.Dir(path)
	}
	return manifest, nil
}
