//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Filesystem (built-in, no process): keyed by
// path +- follow-symlinks; cached metadata, bytes, and link target lazily
// populated."
// Grounded on: _examples/original_source/spec_checks/src/local/fs.rs
//
// Uses golang.org/x/sys/unix (in fs_unix.go) for Stat_t-level
// owner/group uid/gid extraction; permission bits come from os.FileMode.
//

package adapters

import (
	"fmt"
	"os"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// FileEntry is the cached view of one filesystem path.
type FileEntry struct {
	Exists     bool
	IsDir      bool
	IsSymlink  bool
	IsRegular  bool
	Mode       os.FileMode
	UID        uint32
	GID        uint32
	Size       int64
	LinkTarget string
}

type fsKey struct {
	path   string
	follow bool
}

// FSAdapter resolves filesystem metadata, one [exec.Once] per
// (path, follow-symlinks) pair.
type FSAdapter struct {
	mu    sync.Mutex
	cells map[fsKey]*exec.Once[FileEntry]
}

// NewFSAdapter returns an empty [*FSAdapter].
func NewFSAdapter() *FSAdapter {
	return &FSAdapter{cells: make(map[fsKey]*exec.Once[FileEntry])}
}

// Prime installs the (path, follow) cell, if not already primed.
func (a *FSAdapter) Prime(path string, follow bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := fsKey{path, follow}
	if _, ok := a.cells[key]; ok {
		return
	}
	a.cells[key] = exec.NewOnce[FileEntry]()
}

// Stat runs (or reuses) the (path, follow) cell and returns the
// resolved [FileEntry].
func (a *FSAdapter) Stat(path string, follow bool) (FileEntry, error) {
	a.Prime(path, follow)
	a.mu.Lock()
	cell := a.cells[fsKey{path, follow}]
	a.mu.Unlock()
	return cell.Get(func() (FileEntry, error) {
		return statEntry(path, follow)
	})
}

func statEntry(path string, follow bool) (FileEntry, error) {
	lst, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return FileEntry{Exists: false}, nil
	}
	if err != nil {
		return FileEntry{}, err
	}

	entry := FileEntry{Exists: true}
	if lst.Mode()&os.ModeSymlink != 0 {
		entry.IsSymlink = true
		if target, err := os.Readlink(path); err == nil {
			entry.LinkTarget = target
		}
	}

	info := lst
	if follow && entry.IsSymlink {
		stat, err := os.Stat(path)
		if os.IsNotExist(err) {
			return FileEntry{Exists: false}, nil
		}
		if err != nil {
			return FileEntry{}, err
		}
		info = stat
	}

	entry.IsDir = info.IsDir()
	entry.IsRegular = info.Mode().IsRegular()
	entry.Mode = info.Mode()
	entry.Size = info.Size()
	entry.UID, entry.GID = statOwnership(path)
	return entry, nil
}

// PermissionString renders mode's permission bits as a 4-digit
// octal string, e.g. "0755".
func PermissionString(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// RunFS is the capability interface the fs check depends on.
type RunFS interface {
	Prime(path string, follow bool)
	Stat(path string, follow bool) (FileEntry, error)
}

// FuncRunFS stubs [RunFS] for tests.
type FuncRunFS struct {
	PrimeFunc func(string, bool)
	StatFunc  func(string, bool) (FileEntry, error)
}

// Prime implements [RunFS].
func (f FuncRunFS) Prime(path string, follow bool) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(path, follow)
	}
}

// Stat implements [RunFS].
func (f FuncRunFS) Stat(path string, follow bool) (FileEntry, error) {
	return f.StatFunc(path, follow)
}
