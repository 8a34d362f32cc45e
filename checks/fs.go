//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/fs.rs
//

package checks

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/analysis"
	"github.com/bassosimone/specsheet/exec"
)

var (
	fsStates = specsheet.OneOf{"present", "missing"}
	fsKinds  = specsheet.OneOf{"file", "directory", "symlink"}
	modeOnly = regexp.MustCompile(`^[0-7]{3,4}$`)
)

type fsKindCheck int

const (
	fsKindNone fsKindCheck = iota
	fsKindFile
	fsKindDirectory
	fsKindLink
)

// FSCheck asserts properties of a filesystem path: existence, kind,
// permissions, owner, group, link target, and (for regular files)
// contents.
type FSCheck struct {
	path            string
	missing         bool
	follow          bool
	kind            fsKindCheck
	explicitFileKind bool
	linkTarget      string
	hasLinkTarget   bool
	contents        *ContentsMatcher
	hasExecutable   bool
	octalMode       string
	ownerName       string
	ownerID         int64
	hasOwnerName    bool
	hasOwnerID      bool
	groupName       string
	groupID         int64
	hasGroupName    bool
	hasGroupID      bool
}

// ReadFSCheck parses a "[[fs]]" table entry.
func ReadFSCheck(v specsheet.Value) (*FSCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"path", "kind", "state", "permissions", "mode",
		"owner", "group", "link_target", "contents", "follow"}); err != nil {
		return nil, err
	}

	pathVal, err := v.GetOrReadError("path")
	if err != nil {
		return nil, err
	}
	path, err := pathVal.StringOrError("path")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, specsheet.NewInvalidValue("path", pathVal, "it must not be empty")
	}

	c := &FSCheck{path: path}

	if followVal, ok := v.Get("follow"); ok {
		c.follow, err = followVal.BooleanOrError("follow")
		if err != nil {
			return nil, err
		}
	}

	stateVal, hasState := v.Get("state")
	if hasState {
		state, err := stateVal.StringOrError2("state", fsStates)
		if err != nil {
			return nil, err
		}
		switch state {
		case "present":
		case "missing":
			if _, ok := v.Get("kind"); ok {
				return nil, specsheet.NewConflict("kind")
			}
			if _, ok := v.Get("link_target"); ok {
				return nil, specsheet.NewConflict("link_target")
			}
			if _, ok := v.Get("contents"); ok {
				return nil, specsheet.NewConflict("contents")
			}
			c.missing = true
			return c, nil
		default:
			return nil, specsheet.NewInvalidValue("state", stateVal, fsStates)
		}
	}

	if err := c.readKind(v); err != nil {
		return nil, err
	}
	if err := c.readPermissions(v); err != nil {
		return nil, err
	}
	if err := c.readOwner(v); err != nil {
		return nil, err
	}
	if err := c.readGroup(v); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FSCheck) readKind(v specsheet.Value) error {
	if kindVal, ok := v.Get("kind"); ok {
		kind, err := kindVal.StringOrError2("kind", fsKinds)
		if err != nil {
			return err
		}
		switch kind {
		case "file":
			if _, ok := v.Get("link_target"); ok {
				return specsheet.NewConflict("link_target")
			}
			c.kind = fsKindFile
			c.explicitFileKind = true
			if contentsVal, ok := v.Get("contents"); ok {
				m, err := ReadContentsMatcher("contents", contentsVal)
				if err != nil {
					return err
				}
				c.contents = &m
			}
		case "directory":
			if _, ok := v.Get("contents"); ok {
				return specsheet.NewConflict("contents")
			}
			if _, ok := v.Get("link_target"); ok {
				return specsheet.NewConflict("link_target")
			}
			c.kind = fsKindDirectory
		case "symlink":
			if targetVal, ok := v.Get("link_target"); ok {
				target, err := targetVal.StringOrError("link_target")
				if err != nil {
					return err
				}
				if target == "" {
					return specsheet.NewInvalidValue("link_target", targetVal, "it must not be empty")
				}
				c.linkTarget = target
				c.hasLinkTarget = true
			}
			if _, ok := v.Get("contents"); ok {
				return specsheet.NewConflict("contents")
			}
			c.kind = fsKindLink
		default:
			return specsheet.NewInvalidValue("kind", kindVal, fsKinds)
		}
		return nil
	}

	if targetVal, ok := v.Get("link_target"); ok {
		target, err := targetVal.StringOrError("link_target")
		if err != nil {
			return err
		}
		if target == "" {
			return specsheet.NewInvalidValue("link_target", targetVal, "it must not be empty")
		}
		if _, ok := v.Get("contents"); ok {
			return specsheet.NewConflict("contents")
		}
		c.kind = fsKindLink
		c.linkTarget = target
		c.hasLinkTarget = true
		return nil
	}

	if contentsVal, ok := v.Get("contents"); ok {
		m, err := ReadContentsMatcher("contents", contentsVal)
		if err != nil {
			return err
		}
		c.contents = &m
		c.kind = fsKindFile
	}
	return nil
}

func (c *FSCheck) readPermissions(v specsheet.Value) error {
	permVal, hasPerm := v.Get("permissions")
	modeVal, hasMode := v.Get("mode")
	if hasPerm && hasMode {
		return specsheet.NewAliasClash("permissions")
	}
	name, val, has := "permissions", permVal, hasPerm
	if hasMode {
		name, val, has = "mode", modeVal, true
	}
	if !has {
		return nil
	}
	mode, err := val.StringOrError(name)
	if err != nil {
		return err
	}
	if mode == "+x" {
		c.hasExecutable = true
		return nil
	}
	if modeOnly.MatchString(mode) {
		c.octalMode = mode
		return nil
	}
	return specsheet.NewInvalidValue(name, val, "it must be a permissions string")
}

func (c *FSCheck) readOwner(v specsheet.Value) error {
	ownerVal, ok := v.Get("owner")
	if !ok {
		return nil
	}
	if s, ok := ownerVal.AsString(); ok {
		if s == "" {
			return specsheet.NewInvalidValue("owner", ownerVal, "it must not be empty")
		}
		c.ownerName = s
		c.hasOwnerName = true
		return nil
	}
	n, err := ownerVal.NumberOrError("owner")
	if err != nil {
		return specsheet.NewInvalidValue("owner", ownerVal, "it must be a string or a number")
	}
	c.ownerID = n
	c.hasOwnerID = true
	return nil
}

func (c *FSCheck) readGroup(v specsheet.Value) error {
	groupVal, ok := v.Get("group")
	if !ok {
		return nil
	}
	if s, ok := groupVal.AsString(); ok {
		if s == "" {
			return specsheet.NewInvalidValue("group", groupVal, "it must not be empty")
		}
		c.groupName = s
		c.hasGroupName = true
		return nil
	}
	n, err := groupVal.NumberOrError("group")
	if err != nil {
		return specsheet.NewInvalidValue("group", groupVal, "it must be a string or a number")
	}
	c.groupID = n
	c.hasGroupID = true
	return nil
}

// Type implements [specsheet.Check].
func (c *FSCheck) Type() string { return "fs" }

// String implements [fmt.Stringer].
func (c *FSCheck) String() string {
	s := fmt.Sprintf("File '%s'", c.path)
	if c.missing {
		return s + " does not exist"
	}

	wrote := false
	switch c.kind {
	case fsKindFile:
		if c.explicitFileKind {
			s += " is a regular file"
			wrote = true
			if c.contents != nil {
				s += " that"
			}
		}
		if c.contents != nil {
			s += c.contents.describeBare()
		}
	case fsKindDirectory:
		s += " is a directory"
		wrote = true
	case fsKindLink:
		if c.hasLinkTarget {
			s += fmt.Sprintf(" is a symbolic link to '%s'", c.linkTarget)
		} else {
			s += " is a symbolic link"
		}
		wrote = true
	}

	if c.hasOwnerID {
		if wrote {
			s += " and"
		} else {
			s += " has"
		}
		s += fmt.Sprintf(" owner ID '%d'", c.ownerID)
		wrote = true
	} else if c.hasOwnerName {
		if wrote {
			s += " and"
		} else {
			s += " has"
		}
		s += fmt.Sprintf(" owner '%s'", c.ownerName)
		wrote = true
	}

	if c.hasGroupID {
		if wrote {
			s += " and"
		} else {
			s += " has"
		}
		s += fmt.Sprintf(" group ID '%d'", c.groupID)
		wrote = true
	} else if c.hasGroupName {
		if wrote {
			s += " and"
		} else {
			s += " has"
		}
		s += fmt.Sprintf(" group '%s'", c.groupName)
		wrote = true
	}

	if c.hasExecutable {
		if wrote {
			s += " and"
		}
		s += " is executable"
		wrote = true
	} else if c.octalMode != "" {
		if wrote {
			s += " and"
		}
		s += fmt.Sprintf(" has permissions '%s'", c.octalMode)
		wrote = true
	}

	if !wrote {
		s += " exists"
	}
	if c.follow {
		s += " (following symlinks)"
	}
	return s
}

// DataPoints implements [specsheet.DataPointer].
func (c *FSCheck) DataPoints() []analysis.DataPoint {
	points := []analysis.DataPoint{analysis.PathDataPoint(c.path)}
	if c.hasOwnerName {
		points = append(points, analysis.UserDataPoint(c.ownerName))
	}
	if c.hasGroupName {
		points = append(points, analysis.GroupDataPoint(c.groupName))
	}
	return points
}

// Load implements [specsheet.RunnableCheck].
func (c *FSCheck) Load(env *specsheet.Environment) error {
	c.path = env.Rewrites.Path(c.path)
	env.FS.Prime(c.path, c.follow)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *FSCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	entry, err := env.FS.Stat(c.path, c.follow)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	switch {
	case c.missing && entry.Exists:
		return []specsheet.Result{specsheet.FailedResult(fsFileExists{})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(fsFileIsMissing{})}
	case !entry.Exists:
		return []specsheet.Result{specsheet.FailedResult(fsFileIsMissing{})}
	}

	results := []specsheet.Result{specsheet.PassedResult(fsFileExists{})}

	switch c.kind {
	case fsKindFile:
		if entry.IsRegular {
			results = append(results, specsheet.PassedResult(fsIsRegularFile{}))
			if c.contents != nil {
				data, err := os.ReadFile(c.path)
				if err != nil {
					results = append(results, specsheet.FailedResult(fsIOError{err}))
				} else {
					results = append(results, c.contents.Check(data))
				}
			}
		} else {
			results = append(results, specsheet.FailedResult(fsWrongKind{actualFileKind(entry)}))
		}
	case fsKindDirectory:
		if entry.IsDir {
			results = append(results, specsheet.PassedResult(fsIsDirectory{}))
		} else {
			results = append(results, specsheet.FailedResult(fsWrongKind{actualFileKind(entry)}))
		}
	case fsKindLink:
		if entry.IsSymlink {
			results = append(results, specsheet.PassedResult(fsIsLink{}))
			if c.hasLinkTarget {
				if entry.LinkTarget == c.linkTarget {
					results = append(results, specsheet.PassedResult(fsIsCorrectLink{}))
				} else {
					results = append(results, specsheet.FailedResult(fsLinksSomewhereElse{entry.LinkTarget}))
				}
			}
		} else {
			results = append(results, specsheet.FailedResult(fsWrongKind{actualFileKind(entry)}))
		}
	}

	if c.hasOwnerName || c.hasOwnerID {
		results = append(results, c.checkOwner(entry)...)
	}
	if c.hasGroupName || c.hasGroupID {
		results = append(results, c.checkGroup(entry)...)
	}
	if c.hasExecutable {
		if entry.Mode.Perm()&0111 != 0 {
			results = append(results, specsheet.PassedResult(fsHasPermissions{}))
		} else {
			results = append(results, specsheet.FailedResult(fsDifferentPermissions{}))
		}
	} else if c.octalMode != "" {
		if adapters.PermissionString(entry.Mode) == normalizeOctal(c.octalMode) {
			results = append(results, specsheet.PassedResult(fsHasPermissions{}))
		} else {
			results = append(results, specsheet.FailedResult(fsDifferentPermissions{}))
		}
	}

	return results
}

func normalizeOctal(mode string) string {
	for len(mode) < 4 {
		mode = "0" + mode
	}
	return mode
}

func (c *FSCheck) checkOwner(entry adapters.FileEntry) []specsheet.Result {
	actualName, _ := lookupUserByID(entry.UID)
	if c.hasOwnerID {
		if int64(entry.UID) == c.ownerID {
			return []specsheet.Result{specsheet.PassedResult(fsHasOwner{})}
		}
		return []specsheet.Result{specsheet.FailedResult(fsDifferentOwner{entry.UID, actualName})}
	}
	if actualName == c.ownerName {
		return []specsheet.Result{specsheet.PassedResult(fsHasOwner{})}
	}
	results := []specsheet.Result{specsheet.FailedResult(fsDifferentOwner{entry.UID, actualName})}
	if _, err := user.Lookup(c.ownerName); err != nil {
		results = append(results, specsheet.FailedResult(fsUserDoesNotExist{c.ownerName}))
	}
	return results
}

func (c *FSCheck) checkGroup(entry adapters.FileEntry) []specsheet.Result {
	actualName, _ := lookupGroupByID(entry.GID)
	if c.hasGroupID {
		if int64(entry.GID) == c.groupID {
			return []specsheet.Result{specsheet.PassedResult(fsHasGroup{})}
		}
		return []specsheet.Result{specsheet.FailedResult(fsDifferentGroup{entry.GID, actualName})}
	}
	if actualName == c.groupName {
		return []specsheet.Result{specsheet.PassedResult(fsHasGroup{})}
	}
	results := []specsheet.Result{specsheet.FailedResult(fsDifferentGroup{entry.GID, actualName})}
	if _, err := user.LookupGroup(c.groupName); err != nil {
		results = append(results, specsheet.FailedResult(fsGroupDoesNotExist{c.groupName}))
	}
	return results
}

func lookupUserByID(uid uint32) (string, bool) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", false
	}
	return u.Username, true
}

func lookupGroupByID(gid uint32) (string, bool) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return "", false
	}
	return g.Name, true
}

func actualFileKind(entry adapters.FileEntry) string {
	switch {
	case entry.IsDir:
		return "directory"
	case entry.IsSymlink:
		return "symlink"
	case entry.IsRegular:
		return "file"
	default:
		return "other"
	}
}

type fsFileExists struct{}

func (fsFileExists) String() string { return "file exists" }

type fsFileIsMissing struct{}

func (fsFileIsMissing) String() string { return "file is missing" }

type fsIsRegularFile struct{}

func (fsIsRegularFile) String() string { return "it is a regular file" }

type fsIsDirectory struct{}

func (fsIsDirectory) String() string { return "it is a directory" }

type fsIsLink struct{}

func (fsIsLink) String() string { return "it is a symbolic link" }

type fsIsCorrectLink struct{}

func (fsIsCorrectLink) String() string { return "it links to the correct target" }

type fsLinksSomewhereElse struct{ target string }

func (f fsLinksSomewhereElse) String() string { return fmt.Sprintf("it links to '%s'", f.target) }

type fsWrongKind struct{ kind string }

func (f fsWrongKind) String() string { return fmt.Sprintf("it is actually a %s", f.kind) }

type fsIOError struct{ err error }

func (f fsIOError) String() string { return fmt.Sprintf("I/O error reading file: %s", f.err) }

type fsHasPermissions struct{}

func (fsHasPermissions) String() string { return "it has the correct permissions" }

type fsDifferentPermissions struct{}

func (fsDifferentPermissions) String() string { return "it has different permissions" }

type fsHasOwner struct{}

func (fsHasOwner) String() string { return "it has the correct owner" }

type fsDifferentOwner struct {
	uid  uint32
	name string
}

func (f fsDifferentOwner) String() string {
	if f.name == "" {
		return fmt.Sprintf("it has owner ID '%d'", f.uid)
	}
	return fmt.Sprintf("it has owner '%s' (ID '%d')", f.name, f.uid)
}

type fsUserDoesNotExist struct{ name string }

func (f fsUserDoesNotExist) String() string { return fmt.Sprintf("user '%s' does not exist", f.name) }

type fsHasGroup struct{}

func (fsHasGroup) String() string { return "it has the correct group" }

type fsDifferentGroup struct {
	gid  uint32
	name string
}

func (f fsDifferentGroup) String() string {
	if f.name == "" {
		return fmt.Sprintf("it has group ID '%d'", f.gid)
	}
	return fmt.Sprintf("it has group '%s' (ID '%d')", f.name, f.gid)
}

type fsGroupDoesNotExist struct{ name string }

func (f fsGroupDoesNotExist) String() string { return fmt.Sprintf("group '%s' does not exist", f.name) }
