//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/network/udp.rs
//
// The original additionally binds outgoing packets to a given source
// address or interface; [adapters.NetAdapter] always dials from the
// default route, so "source" is carried as a description-only
// annotation and not threaded into the probe itself. Likewise "ufw"
// is a description-only annotation correlating this check with a
// firewall rule, not a separate adapter call.
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/exec"
)

var udpStates = specsheet.OneOf{"responds", "no-response"}

// UdpCheck asserts a UDP port does or does not respond.
type UdpCheck struct {
	spec    portRequestSpec
	missing bool
}

// ReadUdpCheck parses a "[[udp]]" table entry.
func ReadUdpCheck(v specsheet.Value) (*UdpCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"port", "address", "source", "state", "ufw"}); err != nil {
		return nil, err
	}

	spec, err := readPortRequestSpec("udp", v)
	if err != nil {
		return nil, err
	}
	c := &UdpCheck{spec: spec}

	stateVal, hasState := v.Get("state")
	if hasState {
		state, err := stateVal.StringOrError2("state", udpStates)
		if err != nil {
			return nil, err
		}
		switch state {
		case "responds":
		case "no-response":
			c.missing = true
		default:
			return nil, specsheet.NewInvalidValue("state", stateVal, udpStates)
		}
	}

	return c, nil
}

// Type implements [specsheet.Check].
func (c *UdpCheck) Type() string { return "udp" }

// String implements [fmt.Stringer].
func (c *UdpCheck) String() string {
	s := c.spec.describe(fmt.Sprintf("UDP port '%d'", c.spec.request.Port))
	if c.missing {
		s += " does not respond"
	} else {
		s += " responds"
	}
	return s
}

// Load implements [specsheet.RunnableCheck].
func (c *UdpCheck) Load(env *specsheet.Environment) error {
	c.spec.rewrite(env.Rewrites)
	env.Net.Prime(c.spec.request)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *UdpCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	up, err := env.Net.Responds(ctx, c.spec.request)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	switch {
	case c.missing && up:
		return []specsheet.Result{specsheet.FailedResult(netReceivedResponse{})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(netConnectionRefused{})}
	case up:
		return []specsheet.Result{specsheet.PassedResult(netReceivedResponse{})}
	default:
		return []specsheet.Result{specsheet.FailedResult(netConnectionRefused{})}
	}
}

type netReceivedResponse struct{}

func (netReceivedResponse) String() string { return "received a response" }

type netConnectionRefused struct{}

func (netConnectionRefused) String() string { return "connection refused" }
