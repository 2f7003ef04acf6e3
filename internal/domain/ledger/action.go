// Package ledger records the reversible effects an installation run has
// produced so far, so they can be undone in reverse order.
package ledger

import "fmt"

// Kind identifies the variant of an Action.
type Kind string

// Action kinds.
const (
	KindFileCreated      Kind = "file-created"
	KindDirectoryCreated Kind = "directory-created"
	KindBackupTaken      Kind = "backup-taken"
	KindPackageInstalled Kind = "package-installed"
)

// Action is a record of one reversible effect that has already happened.
// The set of implementations is closed: FileCreated, DirectoryCreated,
// BackupTaken and PackageInstalled.
type Action interface {
	Kind() Kind
	String() string
	action()
}

// FileCreated records a file written at Path that did not exist before.
type FileCreated struct {
	Path string
}

// Kind implements Action.
func (FileCreated) Kind() Kind { return KindFileCreated }

func (a FileCreated) String() string { return fmt.Sprintf("created file %s", a.Path) }

func (FileCreated) action() {}

// DirectoryCreated records a directory (and its contents) created at Path.
type DirectoryCreated struct {
	Path string
}

// Kind implements Action.
func (DirectoryCreated) Kind() Kind { return KindDirectoryCreated }

func (a DirectoryCreated) String() string { return fmt.Sprintf("created directory %s", a.Path) }

func (DirectoryCreated) action() {}

// BackupTaken records that the original content of Path was moved or copied
// to BackupPath before Path was overwritten.
type BackupTaken struct {
	Path       string
	BackupPath string
}

// Kind implements Action.
func (BackupTaken) Kind() Kind { return KindBackupTaken }

func (a BackupTaken) String() string {
	return fmt.Sprintf("backed up %s to %s", a.Path, a.BackupPath)
}

func (BackupTaken) action() {}

// PackageInstalled records a package that was not installed before.
type PackageInstalled struct {
	Name string
}

// Kind implements Action.
func (PackageInstalled) Kind() Kind { return KindPackageInstalled }

func (a PackageInstalled) String() string { return fmt.Sprintf("installed package %s", a.Name) }

func (PackageInstalled) action() {}
