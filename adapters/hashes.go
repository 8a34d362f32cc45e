//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Hash tools: keyed by (path, algorithm);
// one command per algorithm; hex prefix extracted from first line."
// Supplemented per SPEC_FULL.md §4.3: multiple algorithms (md5, sha1,
// sha256, sha512), grounded on _examples/original_source/spec_checks/src/local/hashes.rs
//

package adapters

import (
	"context"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

var hashCommands = map[string]string{
	"md5":    "md5sum",
	"sha1":   "shasum -a 1",
	"sha256": "shasum -a 256",
	"sha512": "shasum -a 512",
}

// HashAlgorithms lists the algorithm names [HashAdapter] accepts.
func HashAlgorithms() []string {
	return []string{"md5", "sha1", "sha256", "sha512"}
}

type hashKey struct {
	path      string
	algorithm string
}

// HashAdapter computes a file's hex digest via a shelled-out hashing
// tool, one cell per (path, algorithm) pair.
type HashAdapter struct {
	mu    sync.Mutex
	cells map[hashKey]*exec.Cell[string]
}

// NewHashAdapter returns an empty [*HashAdapter].
func NewHashAdapter() *HashAdapter {
	return &HashAdapter{cells: make(map[hashKey]*exec.Cell[string])}
}

// Prime installs the (path, algorithm) cell, if not already primed.
func (a *HashAdapter) Prime(path, algorithm string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := hashKey{path, algorithm}
	if _, ok := a.cells[key]; ok {
		return
	}
	cmd, ok := hashCommands[algorithm]
	if !ok {
		return
	}
	cell := exec.NewCell[string]()
	cell.Primed(exec.Invocation{Shell: cmd + " " + shellQuote(path)})
	a.cells[key] = cell
}

// Digest runs (or reuses) the (path, algorithm) cell and returns the
// hex digest extracted from the tool's first output line.
func (a *HashAdapter) Digest(ctx context.Context, ex *exec.Executor, path, algorithm string) (string, error) {
	a.Prime(path, algorithm)
	a.mu.Lock()
	cell, ok := a.cells[hashKey{path, algorithm}]
	a.mu.Unlock()
	if !ok {
		return "", exec.ErrCellNotPrimed
	}
	return cell.Run(ctx, ex, func(raw *exec.RanCommand) (string, error) {
		if !raw.ExitReason.Is(0) {
			return "", exec.NewStatusMismatchError(raw.ExitReason)
		}
		lines := raw.StdoutText()
		if len(lines) == 0 {
			return "", nil
		}
		fields := strings.Fields(lines[0])
		if len(fields) == 0 {
			return "", nil
		}
		return fields[0], nil
	})
}

// RunHashes is the capability interface the hashes check depends on.
type RunHashes interface {
	Prime(path, algorithm string)
	Digest(ctx context.Context, ex *exec.Executor, path, algorithm string) (string, error)
}

// FuncRunHashes stubs [RunHashes] for tests.
type FuncRunHashes struct {
	PrimeFunc  func(string, string)
	DigestFunc func(context.Context, *exec.Executor, string, string) (string, error)
}

// Prime implements [RunHashes].
func (f FuncRunHashes) Prime(path, algorithm string) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(path, algorithm)
	}
}

// Digest implements [RunHashes].
func (f FuncRunHashes) Digest(ctx context.Context, ex *exec.Executor, path, algorithm string) (string, error) {
	return f.DigestFunc(ctx, ex, path, algorithm)
}
