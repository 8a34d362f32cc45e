//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/user.rs
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/analysis"
	"github.com/bassosimone/specsheet/exec"
)

var userStates = specsheet.OneOf{"present", "missing"}

// UserCheck asserts a local user account exists (optionally with a
// given login shell and group memberships), or does not exist.
type UserCheck struct {
	name       string
	missing    bool
	loginShell string
	groups     []string
}

// ReadUserCheck parses a "[[user]]" table entry.
func ReadUserCheck(v specsheet.Value) (*UserCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"user", "state", "login_shell", "groups"}); err != nil {
		return nil, err
	}

	nameVal, err := v.GetOrReadError("user")
	if err != nil {
		return nil, err
	}
	name, err := nameVal.StringOrError("user")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, specsheet.NewInvalidValue("user", nameVal, "it must not be empty")
	}

	c := &UserCheck{name: name}

	stateVal, hasState := v.Get("state")
	missing := false
	if hasState {
		state, err := stateVal.StringOrError2("state", userStates)
		if err != nil {
			return nil, err
		}
		switch state {
		case "present":
		case "missing":
			missing = true
		default:
			return nil, specsheet.NewInvalidValue("state", stateVal, userStates)
		}
	}
	c.missing = missing

	if shellVal, ok := v.Get("login_shell"); ok {
		if missing {
			return nil, specsheet.NewConflict("login_shell")
		}
		shell, err := shellVal.StringOrError("login_shell")
		if err != nil {
			return nil, err
		}
		if shell == "" {
			return nil, specsheet.NewInvalidValue("login_shell", shellVal, "it must not be empty")
		}
		c.loginShell = shell
	}

	if groupsVal, ok := v.Get("groups"); ok {
		if missing {
			return nil, specsheet.NewConflict("groups")
		}
		groups, err := groupsVal.StringArrayOrReadError("groups")
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			if g == "" {
				return nil, specsheet.NewInvalidValue("groups", groupsVal, "group names must not be empty")
			}
		}
		c.groups = groups
	}

	return c, nil
}

// Type implements [specsheet.Check].
func (c *UserCheck) Type() string { return "user" }

// String implements [fmt.Stringer].
func (c *UserCheck) String() string {
	if c.missing {
		return fmt.Sprintf("User '%s' does not exist", c.name)
	}
	s := fmt.Sprintf("User '%s' exists", c.name)
	if c.loginShell != "" {
		s += fmt.Sprintf(" with login shell '%s'", c.loginShell)
	}
	if len(c.groups) > 0 {
		s += " and is a member of groups"
		for i, g := range c.groups {
			if i > 0 {
				s += " and"
			}
			s += fmt.Sprintf(" '%s'", g)
		}
	}
	return s
}

// DataPoints implements [specsheet.DataPointer].
func (c *UserCheck) DataPoints() []analysis.DataPoint {
	return []analysis.DataPoint{analysis.UserDataPoint(c.name)}
}

// Load implements [specsheet.RunnableCheck].
func (c *UserCheck) Load(env *specsheet.Environment) error {
	env.Passwd.PrimeUser(c.name)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *UserCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	entry, err := env.Passwd.User(c.name)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	if c.missing {
		if entry.Exists {
			return []specsheet.Result{specsheet.FailedResult(userExists{})}
		}
		return []specsheet.Result{specsheet.PassedResult(userIsMissing{})}
	}
	if !entry.Exists {
		return []specsheet.Result{specsheet.FailedResult(userIsMissing{})}
	}

	results := []specsheet.Result{specsheet.PassedResult(userExists{})}

	if c.loginShell != "" {
		if entry.Shell == c.loginShell {
			results = append(results, specsheet.PassedResult(userHasLoginShell{}))
		} else {
			results = append(results, specsheet.FailedResult(userHasDifferentLoginShell{}))
		}
	}

	for _, group := range c.groups {
		if entry.GroupContains(group) {
			results = append(results, specsheet.PassedResult(userIsMemberOfGroup{group}))
		} else {
			results = append(results, specsheet.FailedResult(userIsNotMemberOfGroup{group}))
		}
	}

	return results
}

type userExists struct{}

func (userExists) String() string { return "user exists" }

type userIsMissing struct{}

func (userIsMissing) String() string { return "user is missing" }

type userIsMemberOfGroup struct{ group string }

func (p userIsMemberOfGroup) String() string { return fmt.Sprintf("user is member of group '%s'", p.group) }

type userIsNotMemberOfGroup struct{ group string }

func (f userIsNotMemberOfGroup) String() string {
	return fmt.Sprintf("user is not member of group '%s'", f.group)
}

type userHasLoginShell struct{}

func (userHasLoginShell) String() string { return "user has correct login shell" }

type userHasDifferentLoginShell struct{}

func (userHasDifferentLoginShell) String() string { return "user has different login shell" }
