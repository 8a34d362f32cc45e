//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/check.rs
//
// The original models a loaded check's result as a generic
// CheckResult<PASS, FAIL> enum, parameterized per check variant. Go
// generics cannot hold that heterogeneously in one []RunnableCheck
// slice across variants with distinct PASS/FAIL types, so Result below
// type-erases at the boundary: each variant's internal Pass/Fail enums
// stay strongly typed and implement [fmt.Stringer], and Evaluate
// returns []Result.
//

package specsheet

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet/analysis"
	"github.com/bassosimone/specsheet/exec"
)

// Check identifies a loaded assertion: its declared type name and a
// human-readable description used in result documents.
type Check interface {
	fmt.Stringer

	// Type returns the name of the table this check was declared
	// under (e.g. "cmd", "apt", "http").
	Type() string
}

// ResultState discriminates the three shapes a [Result] can take.
type ResultState int

const (
	// Passed means the sub-result's predicate held.
	Passed ResultState = iota
	// Failed means the sub-result's predicate did not hold.
	Failed
	// CommandError means the adapter invocation behind this sub-result
	// did not execute as expected.
	CommandError
)

// Result is one sub-result of evaluating a [RunnableCheck]: a
// pass, a fail, or a command error, each carrying a renderable payload.
type Result struct {
	State ResultState
	Pass  fmt.Stringer
	Fail  fmt.Stringer
	Err   error
}

// PassedResult builds a passed [Result].
func PassedResult(pass fmt.Stringer) Result {
	return Result{State: Passed, Pass: pass}
}

// FailedResult builds a failed [Result].
func FailedResult(fail fmt.Stringer) Result {
	return Result{State: Failed, Fail: fail}
}

// CommandErrorResult builds a command-error [Result].
func CommandErrorResult(err error) Result {
	return Result{State: CommandError, Err: err}
}

// IsPassed reports whether r represents a passed sub-result. Used to
// determine whether an entire check succeeded: a check passes only if
// every one of its sub-results passed.
func (r Result) IsPassed() bool { return r.State == Passed }

// String implements [fmt.Stringer].
func (r Result) String() string {
	switch r.State {
	case Passed:
		return r.Pass.String()
	case Failed:
		return r.Fail.String()
	default:
		return r.Err.Error()
	}
}

// CommandOutputter is implemented by Pass/Fail payloads carrying the
// raw output of the command that produced them, for result-document
// rendering.
type CommandOutputter interface {
	CommandOutput() (label string, output string, ok bool)
}

// DiffOutputter is implemented by Fail payloads carrying an
// expected/actual diff, for result-document rendering.
type DiffOutputter interface {
	DiffOutput() (label, expected, actual string, ok bool)
}

// DataPointer is implemented by check variants (filesystem, user,
// group) that additionally emit correlation inputs for the analyser.
type DataPointer interface {
	DataPoints() []analysis.DataPoint
}

// RunnableCheck is the two-phase contract every check variant
// implements: Load reads and validates the variant's declared
// parameters (applying rewrites and priming any adapter the check
// depends on), and Evaluate runs the primed adapter(s) via the shared
// executor and interprets their output into an ordered []Result.
type RunnableCheck interface {
	Check

	// Load validates this check's declared parameters against env's
	// rewrites and primes any adapter cells it depends on.
	Load(env *Environment) error

	// Evaluate runs this check's primed adapter invocation(s) and
	// interprets the result into an ordered list of sub-results.
	Evaluate(ctx context.Context, ex *exec.Executor, env *Environment) []Result
}
