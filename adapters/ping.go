//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "ICMP echo: keyed by target; exit 0/1/2
// accepted; response detection by substring match on summary line."
// Grounded on: _examples/original_source/spec_checks/src/network/ping.rs
//

package adapters

import (
	"context"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// PingAdapter runs `ping -c 1` against a target, one cell per target.
type PingAdapter struct {
	mu    sync.Mutex
	cells map[string]*exec.Cell[bool]
}

// NewPingAdapter returns an empty [*PingAdapter].
func NewPingAdapter() *PingAdapter {
	return &PingAdapter{cells: make(map[string]*exec.Cell[bool])}
}

// Prime installs target's cell, if not already primed.
func (a *PingAdapter) Prime(target string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.cells[target]; ok {
		return
	}
	cell := exec.NewCell[bool]()
	cell.Primed(exec.Invocation{Shell: "ping -c 1 -W 2 " + shellQuote(target)})
	a.cells[target] = cell
}

// Responds runs (or reuses) target's cell and reports whether the
// target replied to the echo request.
func (a *PingAdapter) Responds(ctx context.Context, ex *exec.Executor, target string) (bool, error) {
	a.Prime(target)
	a.mu.Lock()
	cell := a.cells[target]
	a.mu.Unlock()
	return cell.Run(ctx, ex, func(raw *exec.RanCommand) (bool, error) {
		if !raw.ExitReason.IsAnyOf(0, 1, 2) {
			return false, exec.NewStatusMismatchError(raw.ExitReason)
		}
		text := strings.Join(raw.StdoutText(), "\n")
		return strings.Contains(text, "1 received") || strings.Contains(text, "1 packets received"), nil
	})
}

// RunPing is the capability interface the ping check depends on.
type RunPing interface {
	Prime(target string)
	Responds(ctx context.Context, ex *exec.Executor, target string) (bool, error)
}

// FuncRunPing stubs [RunPing] for tests.
type FuncRunPing struct {
	PrimeFunc    func(string)
	RespondsFunc func(context.Context, *exec.Executor, string) (bool, error)
}

// Prime implements [RunPing].
func (f FuncRunPing) Prime(target string) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(target)
	}
}

// Responds implements [RunPing].
func (f FuncRunPing) Responds(ctx context.Context, ex *exec.Executor, target string) (bool, error) {
	return f.RespondsFunc(ctx, ex, target)
}
