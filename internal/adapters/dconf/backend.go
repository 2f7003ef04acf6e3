// Package dconf implements ports.SettingsBackend with the dconf CLI.
package dconf

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotsetup/dotsetup/internal/ports"
	"github.com/dotsetup/dotsetup/internal/validation"
	"gopkg.in/ini.v1"
)

// Setting is one key write derived from a dconf keyfile.
type Setting struct {
	Path  string
	Value string
}

// Backend writes dconf keyfile blobs (the `dconf dump` format) key by key
// below a target directory.
type Backend struct {
	runner ports.CommandRunner
}

// NewBackend creates a Backend. The runner must run as the desktop user.
func NewBackend(runner ports.CommandRunner) *Backend {
	return &Backend{runner: runner}
}

// Apply parses blob and writes every key below target.
func (b *Backend) Apply(ctx context.Context, blob []byte, target string) error {
	settings, err := Parse(blob, target)
	if err != nil {
		return err
	}

	for _, s := range settings {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := b.runner.Run(ctx, "dconf", "write", s.Path, s.Value)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("dconf write %s failed: %s", s.Path, result.Output())
		}
	}
	return nil
}

// Parse converts a keyfile blob into absolute key writes below target.
// Sections are paths relative to target; "[/]" is target itself. Values
// are GVariant text and are passed through unchanged.
func Parse(blob []byte, target string) ([]Setting, error) {
	if err := validation.ValidateDconfPath(target); err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:      "=",
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, blob)
	if err != nil {
		return nil, fmt.Errorf("parse dconf keyfile: %w", err)
	}

	var settings []Setting
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			if len(section.Keys()) > 0 {
				return nil, fmt.Errorf("parse dconf keyfile: key %q outside of a section", section.Keys()[0].Name())
			}
			continue
		}

		dir := target
		if rel := strings.Trim(section.Name(), "/"); rel != "" {
			dir = target + rel + "/"
		}
		if err := validation.ValidateDconfPath(dir); err != nil {
			return nil, fmt.Errorf("section [%s]: %w", section.Name(), err)
		}

		for _, key := range section.Keys() {
			if err := validation.ValidateDconfKey(key.Name()); err != nil {
				return nil, fmt.Errorf("section [%s]: %w", section.Name(), err)
			}
			settings = append(settings, Setting{Path: dir + key.Name(), Value: key.Value()})
		}
	}
	return settings, nil
}

// Ensure Backend implements ports.SettingsBackend.
var _ ports.SettingsBackend = (*Backend)(nil)
