//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Service-state tool: keyed by service name;
// exit 0 present, exit 4 absent, others error. State parsed from
// 'Loaded: not-found', 'Active: active' presence in output."
// Grounded on: _examples/original_source/spec_checks/src/local/systemd.rs
//

package adapters

import (
	"context"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// ServiceState is the tri-state result of a systemd service query.
type ServiceState int

const (
	// ServiceMissing means systemctl reported "Loaded: not-found".
	ServiceMissing ServiceState = iota
	// ServiceRunning means systemctl reported "Active: active".
	ServiceRunning
	// ServiceStopped means the unit is loaded but not active.
	ServiceStopped
)

// SystemdAdapter queries service state via `systemctl status`, one
// cell per service name.
type SystemdAdapter struct {
	mu    sync.Mutex
	cells map[string]*exec.Cell[ServiceState]
}

// NewSystemdAdapter returns an empty [*SystemdAdapter].
func NewSystemdAdapter() *SystemdAdapter {
	return &SystemdAdapter{cells: make(map[string]*exec.Cell[ServiceState])}
}

// Prime installs service's cell, if not already primed.
func (a *SystemdAdapter) Prime(service string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.cells[service]; ok {
		return
	}
	cell := exec.NewCell[ServiceState]()
	cell.Primed(exec.Invocation{Shell: "systemctl status " + shellQuote(service)})
	a.cells[service] = cell
}

// State runs (or reuses) service's cell and returns its [ServiceState].
func (a *SystemdAdapter) State(ctx context.Context, ex *exec.Executor, service string) (ServiceState, error) {
	a.Prime(service)
	a.mu.Lock()
	cell := a.cells[service]
	a.mu.Unlock()
	return cell.Run(ctx, ex, func(raw *exec.RanCommand) (ServiceState, error) {
		switch {
		case raw.ExitReason.Is(4):
			return ServiceMissing, nil
		case raw.ExitReason.Is(0):
			text := strings.Join(raw.StdoutText(), "\n")
			switch {
			case strings.Contains(text, "Loaded: not-found"):
				return ServiceMissing, nil
			case strings.Contains(text, "Active: active"):
				return ServiceRunning, nil
			default:
				return ServiceStopped, nil
			}
		default:
			return ServiceMissing, exec.NewStatusMismatchError(raw.ExitReason)
		}
	})
}

// RunSystemd is the capability interface the systemd check depends on.
type RunSystemd interface {
	Prime(service string)
	State(ctx context.Context, ex *exec.Executor, service string) (ServiceState, error)
}

// FuncRunSystemd stubs [RunSystemd] for tests.
type FuncRunSystemd struct {
	PrimeFunc func(string)
	StateFunc func(context.Context, *exec.Executor, string) (ServiceState, error)
}

// Prime implements [RunSystemd].
func (f FuncRunSystemd) Prime(service string) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(service)
	}
}

// State implements [RunSystemd].
func (f FuncRunSystemd) State(ctx context.Context, ex *exec.Executor, service string) (ServiceState, error) {
	return f.StateFunc(ctx, ex, service)
}
