// Package testutil provides test helpers shared by dotsetup's packages.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTempFile writes content to dir/name, creating parent directories.
func WriteTempFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "failed to create parent of %s", name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "failed to write temp file: %s", name)

	return path
}

// WriteTempDir creates a subdirectory in dir.
func WriteTempDir(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(path, 0o755), "failed to create temp subdirectory: %s", name)

	return path
}

// WriteTree writes every relative path in files under root.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		WriteTempFile(t, root, name, content)
	}
}

// ListTree returns every path under root, relative and sorted, root itself
// included as ".".
func ListTree(t testing.TB, root string) []string {
	t.Helper()

	var paths []string
	err := filepath.WalkDir(root, func(path string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

// ChangeDir changes to a directory for the duration of the test.
func ChangeDir(t *testing.T, dir string) {
	t.Helper()

	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(original)
	})
}
