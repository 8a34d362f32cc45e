//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/command/tap.rs
//
// The original panics if the TAP count line arrives after a result
// line. Per the corrected behavior this is reported as a failed
// sub-result instead (see spec's documented open-question fix).
//

package checks

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/exec"
)

var (
	tapCountLine  = regexp.MustCompile(`^(\d+)\.\.(\d+)$`)
	tapResultLine = regexp.MustCompile(`^(not\s+)?ok\s+(\d+)(?:\s*-\s*(.+))?$`)
)

// TapCheck runs a shell command and interprets its stdout as a
// Test-Anything-Protocol stream.
type TapCheck struct {
	invocation exec.Invocation
}

// ReadTapCheck parses a "[[tap]]" table entry.
func ReadTapCheck(v specsheet.Value) (*TapCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"shell", "environment"}); err != nil {
		return nil, err
	}
	inv, err := readInvocation(v)
	if err != nil {
		return nil, err
	}
	return &TapCheck{invocation: inv}, nil
}

// Type implements [specsheet.Check].
func (c *TapCheck) Type() string { return "tap" }

// String implements [fmt.Stringer].
func (c *TapCheck) String() string {
	return fmt.Sprintf("TAP tests for command '%s'", c.invocation)
}

// Load implements [specsheet.RunnableCheck].
func (c *TapCheck) Load(env *specsheet.Environment) error {
	env.Shell.Prime(c.invocation)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *TapCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	ran, err := env.Shell.Query(ctx, ex, c.invocation)
	if err != nil {
		return []specsheet.Result{specsheet.FailedResult(tapCommandFailed{})}
	}

	var results []specsheet.Result
	var expectedCount int
	haveExpectedCount := false
	var testCount int

	for _, line := range ran.StdoutText() {
		if m := tapCountLine.FindStringSubmatch(line); m != nil {
			if len(results) == 0 {
				expectedCount, _ = strconv.Atoi(m[2])
				haveExpectedCount = true
			} else {
				results = append(results, specsheet.FailedResult(tapLateCountLine{line}))
			}
			continue
		}
		if m := tapResultLine.FindStringSubmatch(line); m != nil {
			testCount++
			number, _ := strconv.Atoi(m[2])
			description := m[3]
			if m[1] != "" {
				results = append(results, specsheet.FailedResult(tapTestFailed{number, description}))
			} else {
				results = append(results, specsheet.PassedResult(tapTestPassed{number, description}))
			}
			continue
		}
		results = append(results, specsheet.FailedResult(tapUnparseableLine{line}))
	}

	if haveExpectedCount {
		if testCount == expectedCount {
			results = append(results, specsheet.PassedResult(tapCorrectNumber{expectedCount}))
		} else {
			results = append(results, specsheet.FailedResult(tapIncorrectNumber{expectedCount, testCount}))
		}
	}

	return results
}

type tapTestPassed struct {
	number      int
	description string
}

func (p tapTestPassed) String() string {
	if p.description == "" {
		return fmt.Sprintf("TAP test #%d passed", p.number)
	}
	return fmt.Sprintf("TAP test #%d passed (%s)", p.number, p.description)
}

type tapCorrectNumber struct{ expected int }

func (p tapCorrectNumber) String() string {
	return fmt.Sprintf("correct number (%d) of tests run", p.expected)
}

type tapCommandFailed struct{}

func (tapCommandFailed) String() string { return "the command failed to be run" }

type tapTestFailed struct {
	number      int
	description string
}

func (f tapTestFailed) String() string {
	if f.description == "" {
		return fmt.Sprintf("TAP test #%d failed", f.number)
	}
	return fmt.Sprintf("TAP test #%d failed (%s)", f.number, f.description)
}

type tapIncorrectNumber struct{ expected, got int }

func (f tapIncorrectNumber) String() string {
	return fmt.Sprintf("incorrect number of tests run (expected %d, got %d)", f.expected, f.got)
}

type tapUnparseableLine struct{ line string }

func (f tapUnparseableLine) String() string { return fmt.Sprintf("unparseable TAP line %q", f.line) }

type tapLateCountLine struct{ line string }

func (f tapLateCountLine) String() string {
	return fmt.Sprintf("TAP count line %q arrived after a result line", f.line)
}
