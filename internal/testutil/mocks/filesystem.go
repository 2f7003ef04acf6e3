package mocks

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dotsetup/dotsetup/internal/ports"
)

// FileSystem is a thread-safe in-memory test double for ports.FileSystem.
// Directories are tracked explicitly; files do not create parent entries.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	fails map[string]error
	ops   []string
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		fails: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// FailOn makes operation op ("copy", "copytree", "mkdir", "remove",
// "removeall", "rename", "write") on path return err.
func (fs *FileSystem) FailOn(op, path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.fails[op+":"+path] = err
}

// Ops returns the mutating operations performed, in order, as "op:path".
func (fs *FileSystem) Ops() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, len(fs.ops))
	copy(out, fs.ops)
	return out
}

// Content returns a file's content and whether it exists.
func (fs *FileSystem) Content(path string) (string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	content, ok := fs.files[path]
	return string(content), ok
}

// Paths returns every file and directory path, sorted.
func (fs *FileSystem) Paths() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, 0, len(fs.files)+len(fs.dirs))
	for p := range fs.files {
		out = append(out, p)
	}
	for p := range fs.dirs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// begin records an operation and returns an injected failure, if any.
// Callers hold the write lock.
func (fs *FileSystem) begin(op, path string) error {
	fs.ops = append(fs.ops, op+":"+path)
	return fs.fails[op+":"+path]
}

// Exists checks if a file or directory exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	return fileExists || fs.dirs[path]
}

// IsDir checks if a path is a directory in the mock filesystem.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(path string, data []byte, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.begin("write", path); err != nil {
		return err
	}
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

// CopyFile copies a file in the mock filesystem.
func (fs *FileSystem) CopyFile(src, dest string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.begin("copy", dest); err != nil {
		return err
	}
	content, ok := fs.files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}
	fs.files[dest] = append([]byte(nil), content...)
	return nil
}

// CopyTree copies every entry below src to dest.
func (fs *FileSystem) CopyTree(src, dest string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.begin("copytree", dest); err != nil {
		return err
	}
	if !fs.dirs[src] {
		return fmt.Errorf("directory not found: %s", src)
	}
	if _, ok := fs.files[dest]; ok || fs.dirs[dest] {
		return fmt.Errorf("destination exists: %s", dest)
	}
	prefix := src + "/"
	files := make(map[string][]byte)
	dirs := []string{dest}
	for p, content := range fs.files {
		if strings.HasPrefix(p, prefix) {
			files[dest+"/"+strings.TrimPrefix(p, prefix)] = append([]byte(nil), content...)
		}
	}
	for p := range fs.dirs {
		if strings.HasPrefix(p, prefix) {
			dirs = append(dirs, dest+"/"+strings.TrimPrefix(p, prefix))
		}
	}
	for p, content := range files {
		fs.files[p] = content
	}
	for _, d := range dirs {
		fs.dirs[d] = true
	}
	return nil
}

// MkdirAll creates a directory and its missing ancestors, stopping at
// the root.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.begin("mkdir", path); err != nil {
		return err
	}
	for d := path; d != "/" && d != "." && !fs.dirs[d]; d = filepath.Dir(d) {
		fs.dirs[d] = true
	}
	return nil
}

// Remove removes a file or directory entry from the mock filesystem.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.begin("remove", path); err != nil {
		return err
	}
	delete(fs.files, path)
	delete(fs.dirs, path)
	return nil
}

// RemoveAll removes a path and everything below it.
func (fs *FileSystem) RemoveAll(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.begin("removeall", path); err != nil {
		return err
	}
	prefix := path + "/"
	for p := range fs.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(fs.files, p)
		}
	}
	for p := range fs.dirs {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(fs.dirs, p)
		}
	}
	return nil
}

// Rename moves a file in the mock filesystem, replacing newPath.
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.begin("rename", oldPath); err != nil {
		return err
	}
	content, ok := fs.files[oldPath]
	if !ok {
		return fmt.Errorf("file not found: %s", oldPath)
	}
	fs.files[newPath] = content
	delete(fs.files, oldPath)
	return nil
}

// FileHash returns a SHA256 hash of a file in the mock filesystem.
func (fs *FileSystem) FileHash(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	content, ok := fs.files[path]
	if !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:]), nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
