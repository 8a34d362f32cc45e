//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "User/group (built-in): keyed by name;
// resolves local user/group database entries; cached."
// Grounded on: _examples/original_source/spec_checks/src/local/{user,group}.rs
//

package adapters

import (
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// UserEntry is the cached view of one local user account.
type UserEntry struct {
	Exists bool
	UID    string
	GID    string
	Shell  string
	Groups []string
}

// GroupEntry is the cached view of one local group.
type GroupEntry struct {
	Exists bool
	GID    string
}

// PasswdAdapter resolves local user/group database entries, one
// [exec.Once] per name.
type PasswdAdapter struct {
	mu         sync.Mutex
	userCells  map[string]*exec.Once[UserEntry]
	groupCells map[string]*exec.Once[GroupEntry]
}

// NewPasswdAdapter returns an empty [*PasswdAdapter].
func NewPasswdAdapter() *PasswdAdapter {
	return &PasswdAdapter{
		userCells:  make(map[string]*exec.Once[UserEntry]),
		groupCells: make(map[string]*exec.Once[GroupEntry]),
	}
}

// PrimeUser installs name's user cell, if not already primed.
func (a *PasswdAdapter) PrimeUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.userCells[name]; ok {
		return
	}
	a.userCells[name] = exec.NewOnce[UserEntry]()
}

// User runs (or reuses) name's user cell and returns its [UserEntry].
func (a *PasswdAdapter) User(name string) (UserEntry, error) {
	a.PrimeUser(name)
	a.mu.Lock()
	cell := a.userCells[name]
	a.mu.Unlock()
	return cell.Get(func() (UserEntry, error) {
		u, err := user.Lookup(name)
		if err != nil {
			if _, ok := err.(user.UnknownUserError); ok {
				return UserEntry{Exists: false}, nil
			}
			return UserEntry{}, err
		}
		groupIDs, _ := u.GroupIds()
		groups := make([]string, 0, len(groupIDs))
		for _, gid := range groupIDs {
			if g, err := user.LookupGroupId(gid); err == nil {
				groups = append(groups, g.Name)
			}
		}
		shell := lookupShell(name)
		return UserEntry{Exists: true, UID: u.Uid, GID: u.Gid, Shell: shell, Groups: groups}, nil
	})
}

// PrimeGroup installs name's group cell, if not already primed.
func (a *PasswdAdapter) PrimeGroup(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.groupCells[name]; ok {
		return
	}
	a.groupCells[name] = exec.NewOnce[GroupEntry]()
}

// Group runs (or reuses) name's group cell and returns its [GroupEntry].
func (a *PasswdAdapter) Group(name string) (GroupEntry, error) {
	a.PrimeGroup(name)
	a.mu.Lock()
	cell := a.groupCells[name]
	a.mu.Unlock()
	return cell.Get(func() (GroupEntry, error) {
		g, err := user.LookupGroup(name)
		if err != nil {
			if _, ok := err.(user.UnknownGroupError); ok {
				return GroupEntry{Exists: false}, nil
			}
			return GroupEntry{}, err
		}
		return GroupEntry{Exists: true, GID: g.Gid}, nil
	})
}

// GroupContains reports whether entry's membership includes group.
func (entry UserEntry) GroupContains(group string) bool {
	for _, g := range entry.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// RunPasswd is the capability interface the user and group checks depend on.
type RunPasswd interface {
	User(name string) (UserEntry, error)
	Group(name string) (GroupEntry, error)
}

// FuncRunPasswd stubs [RunPasswd] for tests.
type FuncRunPasswd struct {
	UserFunc  func(string) (UserEntry, error)
	GroupFunc func(string) (GroupEntry, error)
}

// User implements [RunPasswd].
func (f FuncRunPasswd) User(name string) (UserEntry, error) { return f.UserFunc(name) }

// Group implements [RunPasswd].
func (f FuncRunPasswd) Group(name string) (GroupEntry, error) { return f.GroupFunc(name) }

func lookupShell(name string) string {
	// os/user does not expose the login shell; parse /etc/passwd
	// directly, mirroring how getent/dscl-backed tools resolve it.
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) >= 7 && fields[0] == name {
			return fields[6]
		}
	}
	return ""
}
