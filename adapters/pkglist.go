//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Package list (deb-style / homebrew formula /
// homebrew cask / homebrew tap / language pkg x2): single shared invocation
// listing everything installed, queried by name substring/prefix."
// Check-side contract grounded on: _examples/original_source/spec_checks/src/local/apt.rs
//

package adapters

import (
	"context"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// PackageListAdapter wraps a single "list everything installed"
// invocation shared by every check of one package-manager family
// (apt, a homebrew flavor, npm, gem, …), parsing its output once into
// a name-to-version map that every query reuses.
type PackageListAdapter struct {
	invocation exec.Invocation
	parseLine  func(line string) (name, version string, ok bool)

	mu   sync.Mutex
	cell *exec.Cell[map[string]string]
}

func newPackageListAdapter(shell string, parseLine func(string) (string, string, bool)) *PackageListAdapter {
	return &PackageListAdapter{
		invocation: exec.Invocation{Shell: shell},
		parseLine:  parseLine,
		cell:       exec.NewCell[map[string]string](),
	}
}

// NewAptAdapter returns the apt-flavored [*PackageListAdapter], backed
// by `dpkg-query -W -f='${Package} ${Version}\n'`.
func NewAptAdapter() *PackageListAdapter {
	return newPackageListAdapter(`dpkg-query -W -f='${Package} ${Version}\n'`, parseSpaceSeparated)
}

// NewHomebrewAdapter returns the homebrew-formula-flavored
// [*PackageListAdapter], backed by `brew list --versions`.
func NewHomebrewAdapter() *PackageListAdapter {
	return newPackageListAdapter("brew list --versions", parseSpaceSeparated)
}

// NewHomebrewCaskAdapter returns the homebrew-cask-flavored
// [*PackageListAdapter], backed by `brew list --cask --versions`.
func NewHomebrewCaskAdapter() *PackageListAdapter {
	return newPackageListAdapter("brew list --cask --versions", parseSpaceSeparated)
}

// NewHomebrewTapAdapter returns the homebrew-tap-flavored
// [*PackageListAdapter], backed by `brew tap`. Taps have no version,
// so every present line maps to the empty string.
func NewHomebrewTapAdapter() *PackageListAdapter {
	return newPackageListAdapter("brew tap", func(line string) (string, string, bool) {
		line = strings.TrimSpace(line)
		if line == "" {
			return "", "", false
		}
		return line, "", true
	})
}

// NewNpmAdapter returns the npm-flavored [*PackageListAdapter], backed
// by `npm list -g --depth=0 --long`.
func NewNpmAdapter() *PackageListAdapter {
	return newPackageListAdapter("npm list -g --depth=0 --long", parseNpmLine)
}

// NewGemAdapter returns the gem-flavored [*PackageListAdapter], backed
// by `gem list --local`.
func NewGemAdapter() *PackageListAdapter {
	return newPackageListAdapter("gem list --local", parseGemLine)
}

func parseSpaceSeparated(line string) (string, string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

func parseNpmLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "@") {
		return "", "", false
	}
	name, version, ok := strings.Cut(line, "@")
	if !ok || name == "" {
		return "", "", false
	}
	version = strings.Fields(version)[0]
	return name, version, true
}

func parseGemLine(line string) (string, string, bool) {
	name, rest, ok := strings.Cut(line, " ")
	if !ok {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "(")
	rest = strings.TrimSuffix(rest, ")")
	version, _, _ := strings.Cut(rest, ",")
	return name, version, true
}

// Prime installs the adapter's shared invocation, if not already done.
func (a *PackageListAdapter) Prime() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cell.Primed(a.invocation)
}

func (a *PackageListAdapter) list(ctx context.Context, ex *exec.Executor) (map[string]string, error) {
	return a.cell.Run(ctx, ex, func(raw *exec.RanCommand) (map[string]string, error) {
		out := make(map[string]string)
		for _, line := range raw.StdoutText() {
			name, version, ok := a.parseLine(line)
			if ok {
				out[name] = version
			}
		}
		return out, nil
	})
}

// FindPackage runs (or reuses) the shared listing and returns the
// installed version of name, or false if it is not installed.
func (a *PackageListAdapter) FindPackage(ctx context.Context, ex *exec.Executor, name string) (string, bool, error) {
	packages, err := a.list(ctx, ex)
	if err != nil {
		return "", false, err
	}
	version, ok := packages[name]
	return version, ok, nil
}

// RunPackageList is the capability interface apt/homebrew/npm/gem
// check variants depend on.
type RunPackageList interface {
	Prime()
	FindPackage(ctx context.Context, ex *exec.Executor, name string) (version string, ok bool, err error)
}

// FuncRunPackageList stubs [RunPackageList] for tests.
type FuncRunPackageList struct {
	PrimeFunc       func()
	FindPackageFunc func(ctx context.Context, ex *exec.Executor, name string) (string, bool, error)
}

// Prime implements [RunPackageList].
func (f FuncRunPackageList) Prime() {
	if f.PrimeFunc != nil {
		f.PrimeFunc()
	}
}

// FindPackage implements [RunPackageList].
func (f FuncRunPackageList) FindPackage(ctx context.Context, ex *exec.Executor, name string) (string, bool, error) {
	return f.FindPackageFunc(ctx, ex, name)
}
