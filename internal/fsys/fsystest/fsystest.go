// Package fsystest provides fsys.FS wrappers for tests: fault injection by
// path and write counting.
package fsystest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/projex-snippets/projex/internal/fsys"
)

// ErrInjected is returned by operations on paths marked as failing.
var ErrInjected = fmt.Errorf("injected failure: %w", fs.ErrPermission)

// FS wraps an fsys.FS, failing selected operations and recording writes.
type FS struct {
	Base fsys.FS

	mu         sync.Mutex
	failRead   map[string]bool
	failWrite  map[string]bool
	failMkdir  map[string]bool
	writes     []string
	mkdirCalls []string
}

// New wraps fsys.OS{}.
func New() *FS {
	return &FS{
		Base:      fsys.OS{},
		failRead:  map[string]bool{},
		failWrite: map[string]bool{},
		failMkdir: map[string]bool{},
	}
}

// FailRead makes ReadFile and ReadDir on path fail.
func (f *FS) FailRead(path string) { f.set(f.failRead, path) }

// FailWrite makes WriteFile on path fail.
func (f *FS) FailWrite(path string) { f.set(f.failWrite, path) }

// FailMkdir makes MkdirAll on path fail.
func (f *FS) FailMkdir(path string) { f.set(f.failMkdir, path) }

func (f *FS) set(m map[string]bool, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m[filepath.Clean(path)] = true
}

func (f *FS) failing(m map[string]bool, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return m[filepath.Clean(path)]
}

// Writes returns the paths passed to successful WriteFile calls, in order.
func (f *FS) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

// Mkdirs returns the paths passed to successful MkdirAll calls, in order.
func (f *FS) Mkdirs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.mkdirCalls...)
}

// Reset clears recorded writes and mkdir calls. Injected faults stay.
func (f *FS) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = nil
	f.mkdirCalls = nil
}

func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	if f.failing(f.failRead, name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrInjected}
	}
	return f.Base.ReadDir(name)
}

func (f *FS) ReadFile(name string) ([]byte, error) {
	if f.failing(f.failRead, name) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: ErrInjected}
	}
	return f.Base.ReadFile(name)
}

func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if f.failing(f.failWrite, name) {
		return &fs.PathError{Op: "write", Path: name, Err: ErrInjected}
	}
	if err := f.Base.WriteFile(name, data, perm); err != nil {
		return err
	}
	f.mu.Lock()
	f.writes = append(f.writes, filepath.Clean(name))
	f.mu.Unlock()
	return nil
}

func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	if f.failing(f.failMkdir, path) {
		return &fs.PathError{Op: "mkdir", Path: path, Err: ErrInjected}
	}
	if err := f.Base.MkdirAll(path, perm); err != nil {
		return err
	}
	f.mu.Lock()
	f.mkdirCalls = append(f.mkdirCalls, filepath.Clean(path))
	f.mu.Unlock()
	return nil
}

func (f *FS) Stat(name string) (fs.FileInfo, error) { return f.Base.Stat(name) }

// WriteTree creates files under root from a map of slash-separated relative
// paths to contents. It uses the host filesystem directly so fixtures never
// show up in Writes.
func WriteTree(root string, files map[string]string) error {
	var osfs fsys.OS
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := osfs.MkdirAll(filepath.Dir(path), fsys.DirPerm); err != nil {
			return err
		}
		if err := osfs.WriteFile(path, []byte(body), fsys.FilePerm); err != nil {
			return err
		}
	}
	return nil
}
