//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/group.rs
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/analysis"
	"github.com/bassosimone/specsheet/exec"
)

var groupStates = specsheet.OneOf{"present", "missing"}

// GroupCheck asserts a local group exists, or does not exist.
type GroupCheck struct {
	name    string
	missing bool
}

// ReadGroupCheck parses a "[[group]]" table entry.
func ReadGroupCheck(v specsheet.Value) (*GroupCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"group", "state"}); err != nil {
		return nil, err
	}

	nameVal, err := v.GetOrReadError("group")
	if err != nil {
		return nil, err
	}
	name, err := nameVal.StringOrError("group")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, specsheet.NewInvalidValue("group", nameVal, "it must not be empty")
	}

	c := &GroupCheck{name: name}
	stateVal, ok := v.Get("state")
	if !ok {
		return c, nil
	}
	state, err := stateVal.StringOrError2("state", groupStates)
	if err != nil {
		return nil, err
	}
	switch state {
	case "present":
	case "missing":
		c.missing = true
	default:
		return nil, specsheet.NewInvalidValue("state", stateVal, groupStates)
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *GroupCheck) Type() string { return "group" }

// String implements [fmt.Stringer].
func (c *GroupCheck) String() string {
	if c.missing {
		return fmt.Sprintf("Group '%s' does not exist", c.name)
	}
	return fmt.Sprintf("Group '%s' exists", c.name)
}

// DataPoints implements [specsheet.DataPointer].
func (c *GroupCheck) DataPoints() []analysis.DataPoint {
	return []analysis.DataPoint{analysis.GroupDataPoint(c.name)}
}

// Load implements [specsheet.RunnableCheck].
func (c *GroupCheck) Load(env *specsheet.Environment) error {
	env.Passwd.PrimeGroup(c.name)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *GroupCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	entry, err := env.Passwd.Group(c.name)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	switch {
	case c.missing && entry.Exists:
		return []specsheet.Result{specsheet.FailedResult(groupExists{})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(groupIsMissing{})}
	case !entry.Exists:
		return []specsheet.Result{specsheet.FailedResult(groupIsMissing{})}
	default:
		return []specsheet.Result{specsheet.PassedResult(groupExists{})}
	}
}

type groupExists struct{}

func (groupExists) String() string { return "group exists" }

type groupIsMissing struct{}

func (groupIsMissing) String() string { return "group is missing" }
