//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/ufw.rs
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/exec"
)

var ufwStates = specsheet.OneOf{"present", "missing"}
var ufwProtocols = specsheet.OneOf{"tcp", "udp"}

// UfwCheck asserts the presence or absence of a ufw firewall rule for
// a given port/protocol combination.
type UfwCheck struct {
	port     int
	protocol string
	ipv6     bool
	missing  bool
	allow    string
}

// ReadUfwCheck parses a "[[ufw]]" table entry.
func ReadUfwCheck(v specsheet.Value) (*UfwCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"port", "protocol", "ipv6", "state", "allow"}); err != nil {
		return nil, err
	}

	port, err := readPortNumber(v)
	if err != nil {
		return nil, err
	}

	protoVal, err := v.GetOrReadError("protocol")
	if err != nil {
		return nil, err
	}
	protocol, err := protoVal.StringOrError2("protocol", ufwProtocols)
	if err != nil {
		return nil, err
	}
	if protocol != "tcp" && protocol != "udp" {
		return nil, specsheet.NewInvalidValue("protocol", protoVal, ufwProtocols)
	}

	var ipv6 bool
	if ipv6Val, ok := v.Get("ipv6"); ok {
		ipv6, err = ipv6Val.BooleanOrError("ipv6")
		if err != nil {
			return nil, err
		}
	}

	c := &UfwCheck{port: port, protocol: protocol, ipv6: ipv6}

	stateVal, hasState := v.Get("state")
	allowVal, hasAllow := v.Get("allow")

	if !hasState {
		if !hasAllow {
			return nil, specsheet.NewMissingParameter("allow")
		}
		allow, err := allowVal.StringOrError("allow")
		if err != nil {
			return nil, err
		}
		if allow == "" {
			return nil, specsheet.NewInvalidValue("allow", allowVal, "it must not be empty")
		}
		c.allow = allow
		return c, nil
	}

	state, err := stateVal.StringOrError2("state", ufwStates)
	if err != nil {
		return nil, err
	}
	switch state {
	case "present":
		if !hasAllow {
			return nil, specsheet.NewMissingParameter("allow")
		}
		allow, err := allowVal.StringOrError("allow")
		if err != nil {
			return nil, err
		}
		c.allow = allow
	case "missing":
		if hasAllow {
			return nil, specsheet.NewConflict("allow")
		}
		c.missing = true
	default:
		return nil, specsheet.NewInvalidValue("state", stateVal, ufwStates)
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *UfwCheck) Type() string { return "ufw" }

// String implements [fmt.Stringer].
func (c *UfwCheck) String() string {
	s := fmt.Sprintf("Rule for %s port '%d'", c.protocol, c.port)
	if c.ipv6 {
		s += " (IPv6)"
	}
	if c.missing {
		return s + " does not exist"
	}
	return fmt.Sprintf("%s exists with allow '%s'", s, c.allow)
}

// Load implements [specsheet.RunnableCheck].
func (c *UfwCheck) Load(env *specsheet.Environment) error {
	env.Ufw.Prime()
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *UfwCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	rule, found, err := env.Ufw.FindRule(ctx, ex, c.port, c.protocol, c.ipv6)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	switch {
	case c.missing && found:
		return []specsheet.Result{specsheet.FailedResult(ufwRuleExists{})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(ufwRuleMissing{})}
	case !found:
		return []specsheet.Result{specsheet.FailedResult(ufwRuleMissing{})}
	case rule.Allow == c.allow:
		return []specsheet.Result{
			specsheet.PassedResult(ufwRuleExists{}),
			specsheet.PassedResult(ufwAllowMatches{}),
		}
	default:
		return []specsheet.Result{
			specsheet.PassedResult(ufwRuleExists{}),
			specsheet.FailedResult(ufwAllowMismatch{rule.Allow}),
		}
	}
}

type ufwRuleExists struct{}

func (ufwRuleExists) String() string { return "rule exists" }

type ufwRuleMissing struct{}

func (ufwRuleMissing) String() string { return "rule missing" }

type ufwAllowMatches struct{}

func (ufwAllowMatches) String() string { return "Allow matches" }

type ufwAllowMismatch struct{ allow string }

func (f ufwAllowMismatch) String() string { return fmt.Sprintf("Allow is '%s'", f.allow) }
