package ports

import "os"

// FileSystem provides the file operations installation steps and the
// compensator need.
type FileSystem interface {
	Exists(path string) bool
	IsDir(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	// CopyFile copies a single file, preserving its permission bits.
	CopyFile(src, dest string) error
	// CopyTree copies a directory recursively. dest must not exist.
	CopyTree(src, dest string) error
	MkdirAll(path string, perm os.FileMode) error
	// Remove removes a file or an empty directory.
	Remove(path string) error
	// RemoveAll removes a path and everything below it.
	RemoveAll(path string) error
	Rename(oldPath, newPath string) error
	FileHash(path string) (string, error)
}
