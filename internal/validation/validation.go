// Package validation provides input validation utilities to prevent security vulnerabilities
// such as command injection and path traversal in values taken from the manifest.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrPathTraversal      = errors.New("path traversal detected")
	ErrInvalidPath        = errors.New("invalid path")
	ErrCommandInjection   = errors.New("potential command injection detected")
	ErrInvalidDconfPath   = errors.New("invalid dconf path")
	ErrInvalidDconfKey    = errors.New("invalid dconf key")
	ErrInvalidFileMode    = errors.New("invalid file mode")
)

// Compiled regex patterns for validation (compiled once for performance).
var (
	// packageNameRegex matches valid Debian package names: alphanumeric, hyphens, dots, plus
	// Examples: "git", "kali-linux-headless", "python3.11", "g++"
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// dconfDirRegex matches dconf directory paths, which start and end with a slash
	// Examples: "/", "/org/gnome/shell/extensions/dash-to-panel/"
	dconfDirRegex = regexp.MustCompile(`^/([a-zA-Z0-9_.-]+/)*$`)

	// dconfKeyRegex matches a single dconf key name
	// Examples: "panel-size", "show-favorites"
	dconfKeyRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// fileModeRegex matches octal permission strings
	// Examples: "644", "0755", "0o600"
	fileModeRegex = regexp.MustCompile(`^(0o?)?[0-7]{3,4}$`)

	// shellMetaChars contains shell metacharacters that could enable injection
	shellMetaChars = []string{";", "|", "&", "$", "`", "(", ")", "{", "}", "<", ">", "\n", "\r", "\\"}
)

// ValidatePackageName validates an apt package name.
// Returns an error if the name is empty or contains invalid characters.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	// Check for maximum length (reasonable limit)
	if len(name) > 256 {
		return fmt.Errorf("%w: name too long (max 256 characters)", ErrInvalidPackageName)
	}

	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPackageName, name)
	}

	if containsShellMeta(name) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, name)
	}

	return nil
}

// ValidatePath validates a file path and prevents path traversal attacks.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// ValidateDconfPath validates a dconf directory such as "/org/gnome/desktop/".
func ValidateDconfPath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	if !dconfDirRegex.MatchString(path) {
		return fmt.Errorf("%w: %q must start and end with '/'", ErrInvalidDconfPath, path)
	}

	return nil
}

// ValidateDconfKey validates a dconf key name.
func ValidateDconfKey(key string) error {
	if key == "" {
		return ErrEmptyInput
	}

	if !dconfKeyRegex.MatchString(key) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidDconfKey, key)
	}

	return nil
}

// ValidateFileMode validates an octal permission string. Empty is allowed.
func ValidateFileMode(mode string) error {
	if mode == "" {
		return nil
	}

	if !fileModeRegex.MatchString(mode) {
		return fmt.Errorf("%w: %q is not an octal mode", ErrInvalidFileMode, mode)
	}

	return nil
}

// containsShellMeta checks if a string contains shell metacharacters.
func containsShellMeta(s string) bool {
	for _, char := range shellMetaChars {
		if strings.Contains(s, char) {
			return true
		}
	}
	return false
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	// Normalize the path to catch encoded traversal attempts
	normalized := filepath.Clean(path)

	segments := strings.Split(normalized, string(filepath.Separator))
	for _, seg := range segments {
		if seg == ".." {
			return true
		}
	}

	// Check for URL-encoded traversal
	if strings.Contains(path, "%2e%2e") || strings.Contains(path, "%2E%2E") {
		return true
	}

	return false
}
