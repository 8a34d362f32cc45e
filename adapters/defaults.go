//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Preferences key-value reader: keyed by
// (namespace, key); exit code 1 is absent, 0 is present"
// Grounded on: _examples/original_source/spec_checks/src/local/defaults.rs
//

package adapters

import (
	"context"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// DefaultsLocation is a (domain, key) pair identifying a macOS
// preferences value, and the cache key for a [DefaultsAdapter] cell.
type DefaultsLocation struct {
	Domain string
	Key    string
}

func (l DefaultsLocation) cacheKey() string { return l.Domain + "\x00" + l.Key }

// DefaultsAdapter queries the macOS preferences database via the
// `defaults` command, one cell per (domain, key) pair.
type DefaultsAdapter struct {
	mu    sync.Mutex
	cells map[string]*exec.Cell[defaultsValue]
}

type defaultsValue struct {
	present bool
	value   string
}

// NewDefaultsAdapter returns an empty [*DefaultsAdapter].
func NewDefaultsAdapter() *DefaultsAdapter {
	return &DefaultsAdapter{cells: make(map[string]*exec.Cell[defaultsValue])}
}

// Prime installs loc's cell, if not already primed.
func (a *DefaultsAdapter) Prime(loc DefaultsLocation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := loc.cacheKey()
	if _, ok := a.cells[key]; ok {
		return
	}
	cell := exec.NewCell[defaultsValue]()
	cell.Primed(exec.Invocation{Shell: "defaults read " + shellQuote(loc.Domain) + " " + shellQuote(loc.Key)})
	a.cells[key] = cell
}

// Read runs (or reuses) loc's cell, returning the present value or
// ok=false if the key is absent (exit code 1).
func (a *DefaultsAdapter) Read(ctx context.Context, ex *exec.Executor, loc DefaultsLocation) (string, bool, error) {
	a.mu.Lock()
	cell, ok := a.cells[loc.cacheKey()]
	a.mu.Unlock()
	if !ok {
		a.Prime(loc)
		a.mu.Lock()
		cell = a.cells[loc.cacheKey()]
		a.mu.Unlock()
	}
	v, err := cell.Run(ctx, ex, func(raw *exec.RanCommand) (defaultsValue, error) {
		if raw.ExitReason.Is(1) {
			return defaultsValue{present: false}, nil
		}
		if !raw.ExitReason.Is(0) {
			return defaultsValue{}, exec.NewStatusMismatchError(raw.ExitReason)
		}
		return defaultsValue{present: true, value: strings.TrimSpace(strings.Join(raw.StdoutText(), "\n"))}, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.value, v.present, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RunDefaults is the capability interface the defaults check depends on.
type RunDefaults interface {
	Prime(loc DefaultsLocation)
	Read(ctx context.Context, ex *exec.Executor, loc DefaultsLocation) (value string, present bool, err error)
}

// FuncRunDefaults stubs [RunDefaults] for tests.
type FuncRunDefaults struct {
	PrimeFunc func(DefaultsLocation)
	ReadFunc  func(context.Context, *exec.Executor, DefaultsLocation) (string, bool, error)
}

// Prime implements [RunDefaults].
func (f FuncRunDefaults) Prime(loc DefaultsLocation) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(loc)
	}
}

// Read implements [RunDefaults].
func (f FuncRunDefaults) Read(ctx context.Context, ex *exec.Executor, loc DefaultsLocation) (string, bool, error) {
	return f.ReadFunc(ctx, ex, loc)
}
