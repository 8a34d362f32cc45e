//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Shell: keyed by Invocation... no interpretation
// beyond line split"; _examples/original_source/spec_checks/src/command/cmd.rs
//

package adapters

import (
	"context"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// ShellAdapter runs an arbitrary shell invocation and returns the raw
// [*exec.RanCommand], keyed by the invocation itself so the same shell
// string and environment only ever run once.
type ShellAdapter struct {
	mu    sync.Mutex
	cells map[string]*exec.Cell[*exec.RanCommand]
}

// NewShellAdapter returns an empty [*ShellAdapter].
func NewShellAdapter() *ShellAdapter {
	return &ShellAdapter{cells: make(map[string]*exec.Cell[*exec.RanCommand])}
}

// Prime installs inv's cell, if one does not already exist for its key.
func (a *ShellAdapter) Prime(inv exec.Invocation) *exec.Cell[*exec.RanCommand] {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := inv.Key()
	cell, ok := a.cells[key]
	if !ok {
		cell = exec.NewCell[*exec.RanCommand]()
		cell.Primed(inv)
		a.cells[key] = cell
	}
	return cell
}

// Query runs (or reuses) inv's cell and returns the raw command result.
func (a *ShellAdapter) Query(ctx context.Context, ex *exec.Executor, inv exec.Invocation) (*exec.RanCommand, error) {
	cell := a.Prime(inv)
	return cell.Run(ctx, ex, func(raw *exec.RanCommand) (*exec.RanCommand, error) {
		return raw, nil
	})
}

// RunShell is the capability interface check variants depend on
// instead of a concrete *[ShellAdapter], for test stubbing.
type RunShell interface {
	Prime(inv exec.Invocation) *exec.Cell[*exec.RanCommand]
	Query(ctx context.Context, ex *exec.Executor, inv exec.Invocation) (*exec.RanCommand, error)
}

// FuncRunShell stubs [RunShell] for tests.
type FuncRunShell struct {
	PrimeFunc func(exec.Invocation) *exec.Cell[*exec.RanCommand]
	QueryFunc func(context.Context, *exec.Executor, exec.Invocation) (*exec.RanCommand, error)
}

// Prime implements [RunShell].
func (f FuncRunShell) Prime(inv exec.Invocation) *exec.Cell[*exec.RanCommand] {
	if f.PrimeFunc != nil {
		return f.PrimeFunc(inv)
	}
	return nil
}

// Query implements [RunShell].
func (f FuncRunShell) Query(ctx context.Context, ex *exec.Executor, inv exec.Invocation) (*exec.RanCommand, error) {
	return f.QueryFunc(ctx, ex, inv)
}
