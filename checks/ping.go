//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/network/ping.rs
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/exec"
)

var pingStates = specsheet.OneOf{"responds", "no-response"}

// PingCheck asserts that an ICMP echo request to target does or does
// not receive a response.
type PingCheck struct {
	target  string
	missing bool
}

// ReadPingCheck parses a "[[ping]]" table entry.
func ReadPingCheck(v specsheet.Value) (*PingCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"target", "state"}); err != nil {
		return nil, err
	}

	targetVal, err := v.GetOrReadError("target")
	if err != nil {
		return nil, err
	}
	target, err := targetVal.StringOrError("target")
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, specsheet.NewInvalidValue("target", targetVal, "it must not be empty")
	}

	c := &PingCheck{target: target}

	stateVal, ok := v.Get("state")
	if !ok {
		return c, nil
	}
	state, err := stateVal.StringOrError2("state", pingStates)
	if err != nil {
		return nil, err
	}
	switch state {
	case "responds":
	case "no-response":
		c.missing = true
	default:
		return nil, specsheet.NewInvalidValue("state", stateVal, pingStates)
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *PingCheck) Type() string { return "ping" }

// String implements [fmt.Stringer].
func (c *PingCheck) String() string {
	if c.missing {
		return fmt.Sprintf("Pinging '%s' should time out", c.target)
	}
	return fmt.Sprintf("Pinging '%s' should receive a response", c.target)
}

// Load implements [specsheet.RunnableCheck].
func (c *PingCheck) Load(env *specsheet.Environment) error {
	env.Ping.Prime(c.target)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *PingCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	up, err := env.Ping.Responds(ctx, ex, c.target)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	switch {
	case c.missing && up:
		return []specsheet.Result{specsheet.FailedResult(pingReceivedResponse{})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(pingNoResponse{})}
	case up:
		return []specsheet.Result{specsheet.PassedResult(pingReceivedResponse{})}
	default:
		return []specsheet.Result{specsheet.FailedResult(pingNoResponse{})}
	}
}

type pingReceivedResponse struct{}

func (pingReceivedResponse) String() string { return "received response" }

type pingNoResponse struct{}

func (pingNoResponse) String() string { return "no response" }
