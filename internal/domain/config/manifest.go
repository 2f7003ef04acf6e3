// Package config loads and validates the installer manifest and resolves
// the environment its paths are expanded against.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// StepKind selects the step implementation built for a manifest entry.
type StepKind string

// Supported step kinds.
const (
	KindRequireFiles StepKind = "require-files"
	KindPackages     StepKind = "packages"
	KindCopyFile     StepKind = "copy-file"
	KindCopyTree     StepKind = "copy-tree"
	KindEnsureDirs   StepKind = "ensure-dirs"
	KindSettings     StepKind = "settings"
	KindConfirm      StepKind = "confirm"
)

var knownKinds = []StepKind{
	KindRequireFiles,
	KindPackages,
	KindCopyFile,
	KindCopyTree,
	KindEnsureDirs,
	KindSettings,
	KindConfirm,
}

// Known reports whether k is a supported step kind.
func (k StepKind) Known() bool {
	for _, known := range knownKinds {
		if k == known {
			return true
		}
	}
	return false
}

func kindNames() []string {
	names := make([]string, len(knownKinds))
	for i, k := range knownKinds {
		names[i] = string(k)
	}
	return names
}

// Format is a manifest encoding.
type Format string

// Manifest formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the manifest format from the file extension.
// Anything other than .toml is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// StepSpec is one manifest entry. Only the fields of its kind are used.
type StepSpec struct {
	Name string   `yaml:"name" toml:"name"`
	Kind StepKind `yaml:"kind" toml:"kind"`

	// require-files, ensure-dirs
	Paths []string `yaml:"paths,omitempty" toml:"paths,omitempty"`

	// packages
	Packages []string `yaml:"packages,omitempty" toml:"packages,omitempty"`
	Refresh  bool     `yaml:"refresh,omitempty" toml:"refresh,omitempty"`

	// copy-file, copy-tree, settings
	Src    string `yaml:"src,omitempty" toml:"src,omitempty"`
	Dest   string `yaml:"dest,omitempty" toml:"dest,omitempty"`
	Backup *bool  `yaml:"backup,omitempty" toml:"backup,omitempty"`
	Mode   string `yaml:"mode,omitempty" toml:"mode,omitempty"`
	Target string `yaml:"target,omitempty" toml:"target,omitempty"`

	// confirm
	Question string     `yaml:"question,omitempty" toml:"question,omitempty"`
	Default  bool       `yaml:"default,omitempty" toml:"default,omitempty"`
	Steps    []StepSpec `yaml:"steps,omitempty" toml:"steps,omitempty"`
}

// BackupEnabled returns whether copy-file keeps a backup of a differing
// destination. Backups are on unless disabled explicitly.
func (s StepSpec) BackupEnabled() bool {
	return s.Backup == nil || *s.Backup
}

// FileMode parses the octal copy-file mode. Zero means keep the source
// file's permissions.
func (s StepSpec) FileMode() (os.FileMode, error) {
	if s.Mode == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s.Mode, "0o"), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", s.Mode, err)
	}
	return os.FileMode(v) & os.ModePerm, nil
}

// Manifest is the root configuration (dotsetup.yaml or dotsetup.toml).
type Manifest struct {
	Name      string     `yaml:"name,omitempty" toml:"name,omitempty"`
	Version   string     `yaml:"version,omitempty" toml:"version,omitempty"`
	SourceDir string     `yaml:"source_dir,omitempty" toml:"source_dir,omitempty"`
	TempDir   string     `yaml:"temp_dir,omitempty" toml:"temp_dir,omitempty"`
	LogFile   string     `yaml:"log_file,omitempty" toml:"log_file,omitempty"`
	Steps     []StepSpec `yaml:"steps" toml:"steps"`

	// Dir is the directory the manifest was loaded from.
	Dir string `yaml:"-" toml:"-"`
}

// ParseManifest decodes a manifest in the given format.
func ParseManifest(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
	return &m, nil
}

// StepCount returns the number of top-level and nested steps.
func (m *Manifest) StepCount() int {
	return countSteps(m.Steps)
}

func countSteps(steps []StepSpec) int {
	n := 0
	for _, s := range steps {
		n++
		n += countSteps(s.Steps)
	}
	return n
}

// Expand returns a copy of the manifest with every path placeholder
// resolved against env. Relative sources resolve against the source
// directory, relative destinations against the home directory.
func (m *Manifest) Expand(env Environment) *Manifest {
	out := *m
	out.SourceDir = env.SourceDir
	out.TempDir = env.TempDir
	if m.LogFile != "" {
		out.LogFile = env.resolve(m.LogFile, env.StateDir)
	}
	out.Steps = expandSteps(m.Steps, env)
	return &out
}

func expandSteps(steps []StepSpec, env Environment) []StepSpec {
	if steps == nil {
		return nil
	}
	out := make([]StepSpec, len(steps))
	for i, s := range steps {
		c := s
		switch s.Kind {
		case KindRequireFiles:
			c.Paths = expandAll(s.Paths, env, env.SourceDir)
		case KindEnsureDirs:
			c.Paths = expandAll(s.Paths, env, env.Home)
		case KindCopyFile, KindCopyTree:
			c.Src = env.resolve(s.Src, env.SourceDir)
			c.Dest = env.resolve(s.Dest, env.Home)
		case KindSettings:
			c.Src = env.resolve(s.Src, env.SourceDir)
		case KindPackages, KindConfirm:
		}
		c.Steps = expandSteps(s.Steps, env)
		out[i] = c
	}
	return out
}

func expandAll(paths []string, env Environment, base string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = env.resolve(p, base)
	}
	return out
}
