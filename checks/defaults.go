//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/defaults.rs
//
// The original additionally supports a "file"-backed plist location;
// [adapters.DefaultsAdapter] only models the domain-keyed form, so
// this check accepts "domain" and not "file".
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/exec"
)

var defaultsStates = specsheet.OneOf{"present", "absent"}

// DefaultsCheck asserts the value of a macOS preferences key, or its
// absence.
type DefaultsCheck struct {
	loc     adapters.DefaultsLocation
	missing bool
	value   string
}

// ReadDefaultsCheck parses a "[[defaults]]" table entry.
func ReadDefaultsCheck(v specsheet.Value) (*DefaultsCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"domain", "key", "state", "value"}); err != nil {
		return nil, err
	}

	domainVal, err := v.GetOrReadError("domain")
	if err != nil {
		return nil, err
	}
	domain, err := domainVal.StringOrError("domain")
	if err != nil {
		return nil, err
	}
	if domain == "" {
		return nil, specsheet.NewInvalidValue("domain", domainVal, "it must not be empty")
	}

	keyVal, err := v.GetOrReadError("key")
	if err != nil {
		return nil, err
	}
	key, err := keyVal.StringOrError("key")
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, specsheet.NewInvalidValue("key", keyVal, "it must not be empty")
	}

	c := &DefaultsCheck{loc: adapters.DefaultsLocation{Domain: domain, Key: key}}

	valueVal, hasValue := v.Get("value")
	var value string
	if hasValue {
		value, err = valueVal.StringOrError("value")
		if err != nil {
			return nil, err
		}
	}

	stateVal, hasState := v.Get("state")
	if !hasState {
		if !hasValue {
			return nil, specsheet.NewMissingParameter("value")
		}
		c.value = value
		return c, nil
	}

	state, err := stateVal.StringOrError2("state", defaultsStates)
	if err != nil {
		return nil, err
	}
	switch state {
	case "present":
		if !hasValue {
			return nil, specsheet.NewMissingParameter("value")
		}
		c.value = value
	case "absent":
		if hasValue {
			return nil, specsheet.NewConflict("value")
		}
		c.missing = true
	default:
		return nil, specsheet.NewInvalidValue("state", stateVal, defaultsStates)
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *DefaultsCheck) Type() string { return "defaults" }

// String implements [fmt.Stringer].
func (c *DefaultsCheck) String() string {
	if c.missing {
		return fmt.Sprintf("Defaults value '%s/%s' is absent", c.loc.Domain, c.loc.Key)
	}
	return fmt.Sprintf("Defaults value '%s/%s' is '%s'", c.loc.Domain, c.loc.Key, c.value)
}

// Load implements [specsheet.RunnableCheck].
func (c *DefaultsCheck) Load(env *specsheet.Environment) error {
	env.Defaults.Prime(c.loc)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *DefaultsCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	got, present, err := env.Defaults.Read(ctx, ex, c.loc)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	switch {
	case c.missing && present:
		return []specsheet.Result{specsheet.FailedResult(defaultsIsPresent{})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(defaultsIsMissing{})}
	case !present:
		return []specsheet.Result{specsheet.FailedResult(defaultsIsMissing{})}
	case got == c.value:
		return []specsheet.Result{specsheet.PassedResult(defaultsValueMatches{})}
	default:
		return []specsheet.Result{specsheet.FailedResult(defaultsValueMismatch{got})}
	}
}

type defaultsValueMatches struct{}

func (defaultsValueMatches) String() string { return "the value matches" }

type defaultsIsMissing struct{}

func (defaultsIsMissing) String() string { return "value is missing" }

type defaultsIsPresent struct{}

func (defaultsIsPresent) String() string { return "a value is present" }

type defaultsValueMismatch struct{ got string }

func (f defaultsValueMismatch) String() string { return fmt.Sprintf("values do not match; got '%s'", f.got) }
