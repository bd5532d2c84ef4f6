// Package fsys is the filesystem seam used by the sync core. Production code
// passes OS{}; tests wrap it to inject faults or count writes.
package fsys

import (
	"io/fs"
	"os"
)

const (
	// DirPerm is used when creating destination directories.
	DirPerm fs.FileMode = 0755
	// FilePerm is used when writing destination files.
	FilePerm fs.FileMode = 0644
)

// FS is the subset of filesystem operations the sync core needs.
type FS interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Stat(name string) (fs.FileInfo, error)
}

// OS implements FS on top of the host filesystem.
type OS struct{}

func (OS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OS) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }
func (OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}
func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
