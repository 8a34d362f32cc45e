//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_exec/src/exec.rs
//

package exec

import (
	"context"
	"errors"
	"sync"
)

type cellState int

const (
	cellEmpty cellState = iota
	cellPredetermined
	cellPrimed
	cellRunning
	cellCompleted
	cellAttempted
)

// ErrCellNotPrimed is returned by [*Cell.Run] and [*Cell.RunRaw] when
// the cell has neither a predetermined value nor a primed invocation.
var ErrCellNotPrimed = errors.New("exec: cell has no primed invocation")

// Cell is a state machine around one invocation, guaranteeing it is
// executed at most once and sharing its interpreted result (or its
// failure) with every caller. States: Predetermined, Primed, Running
// (transient, never externally observable), Completed, Attempted.
//
// Guarded by its own mutex; never held across another cell's lock.
type Cell[T any] struct {
	mu    sync.Mutex
	state cellState

	invocation Invocation
	raw        *RanCommand
	value      T
	err        error
}

// NewCell returns an empty, unprimed [*Cell].
func NewCell[T any]() *Cell[T] {
	return &Cell[T]{}
}

// Predetermined installs value as the cell's permanent result: [*Cell.Run]
// will always return value without ever executing anything.
func (c *Cell[T]) Predetermined(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = cellPredetermined
	c.value = value
}

// Primed installs inv as the cell's invocation, if the cell is empty.
// Idempotent: calling it again with the same or a different invocation
// after the cell already has one has no effect.
func (c *Cell[T]) Primed(inv Invocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == cellEmpty {
		c.state = cellPrimed
		c.invocation = inv
	}
}

// IntoCommand returns the primed invocation without running it or
// changing the cell's state, for a list-commands dry run.
func (c *Cell[T]) IntoCommand() (Invocation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == cellPrimed {
		return c.invocation, true
	}
	return Invocation{}, false
}

// Run executes the cell's invocation via ex, the first time it is
// called, interpreting the raw output with interpret; subsequent calls
// (concurrent or not) observe the same shared T or the same shared
// error without running anything again.
func (c *Cell[T]) Run(ctx context.Context, ex *Executor, interpret func(*RanCommand) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case cellPredetermined, cellCompleted:
		return c.value, nil
	case cellAttempted:
		var zero T
		return zero, c.err
	case cellEmpty:
		var zero T
		return zero, ErrCellNotPrimed
	}

	c.state = cellRunning
	raw, err := ex.Run(ctx, c.invocation)
	if err != nil {
		c.state = cellAttempted
		c.err = err
		var zero T
		return zero, err
	}
	c.raw = raw

	value, err := interpret(raw)
	if err != nil {
		c.state = cellAttempted
		c.err = err
		var zero T
		return zero, err
	}

	c.state = cellCompleted
	c.value = value
	return value, nil
}

// RunRaw is like [*Cell.Run] but returns the uninterpreted [*RanCommand].
func (c *Cell[T]) RunRaw(ctx context.Context, ex *Executor) (*RanCommand, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case cellCompleted:
		return c.raw, nil
	case cellAttempted:
		return nil, c.err
	case cellPredetermined:
		return nil, nil
	case cellEmpty:
		return nil, ErrCellNotPrimed
	}

	c.state = cellRunning
	raw, err := ex.Run(ctx, c.invocation)
	c.raw = raw
	if err != nil {
		c.state = cellAttempted
		c.err = err
		return nil, err
	}
	c.state = cellCompleted
	return raw, nil
}
