//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/systemd.rs
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/exec"
)

var systemdStates = specsheet.OneOf{"running", "stopped", "missing"}

// SystemdCheck asserts the state of a systemd-managed service.
type SystemdCheck struct {
	service string
	want    adapters.ServiceState
}

// ReadSystemdCheck parses a "[[systemd]]" table entry.
func ReadSystemdCheck(v specsheet.Value) (*SystemdCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"service", "state"}); err != nil {
		return nil, err
	}

	nameVal, err := v.GetOrReadError("service")
	if err != nil {
		return nil, err
	}
	name, err := nameVal.StringOrError("service")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, specsheet.NewInvalidValue("service", nameVal, "it must not be empty")
	}

	c := &SystemdCheck{service: name, want: adapters.ServiceRunning}
	stateVal, ok := v.Get("state")
	if !ok {
		return c, nil
	}
	state, err := stateVal.StringOrError2("state", systemdStates)
	if err != nil {
		return nil, err
	}
	switch state {
	case "running":
		c.want = adapters.ServiceRunning
	case "stopped":
		c.want = adapters.ServiceStopped
	case "missing":
		c.want = adapters.ServiceMissing
	default:
		return nil, specsheet.NewInvalidValue("state", stateVal, systemdStates)
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *SystemdCheck) Type() string { return "systemd" }

// String implements [fmt.Stringer].
func (c *SystemdCheck) String() string {
	return fmt.Sprintf("Service '%s' is %s", c.service, systemdStateWord(c.want))
}

func systemdStateWord(s adapters.ServiceState) string {
	switch s {
	case adapters.ServiceRunning:
		return "running"
	case adapters.ServiceStopped:
		return "stopped"
	default:
		return "missing"
	}
}

// Load implements [specsheet.RunnableCheck].
func (c *SystemdCheck) Load(env *specsheet.Environment) error {
	env.Systemd.Prime(c.service)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *SystemdCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	got, err := env.Systemd.State(ctx, ex, c.service)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}
	if got == c.want {
		return []specsheet.Result{specsheet.PassedResult(systemdState{got})}
	}
	return []specsheet.Result{specsheet.FailedResult(systemdState{got})}
}

type systemdState struct{ state adapters.ServiceState }

func (s systemdState) String() string { return fmt.Sprintf("it is %s", systemdStateWord(s.state)) }
