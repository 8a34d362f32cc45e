//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/command/cmd.rs
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/exec"
)

// CommandCheck runs an arbitrary shell command and asserts on its exit
// status and output streams.
type CommandCheck struct {
	invocation exec.Invocation
	hasStatus  bool
	status     int
	stdout     *ContentsMatcher
	stderr     *ContentsMatcher
}

// ReadCommandCheck parses a "[[cmd]]" table entry.
func ReadCommandCheck(v specsheet.Value) (*CommandCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"shell", "environment", "status", "stdout", "stderr"}); err != nil {
		return nil, err
	}
	inv, err := readInvocation(v)
	if err != nil {
		return nil, err
	}

	c := &CommandCheck{invocation: inv}
	if statusVal, ok := v.Get("status"); ok {
		n, err := statusVal.NumberOrError("status")
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 255 {
			return nil, specsheet.NewInvalidValue("status", statusVal, "it must be between 0 and 255")
		}
		c.hasStatus = true
		c.status = int(n)
	}
	if stdoutVal, ok := v.Get("stdout"); ok {
		m, err := ReadContentsMatcher("stdout", stdoutVal)
		if err != nil {
			return nil, err
		}
		c.stdout = &m
	}
	if stderrVal, ok := v.Get("stderr"); ok {
		m, err := ReadContentsMatcher("stderr", stderrVal)
		if err != nil {
			return nil, err
		}
		c.stderr = &m
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *CommandCheck) Type() string { return "cmd" }

// String implements [fmt.Stringer].
func (c *CommandCheck) String() string {
	switch {
	case c.stdout == nil && c.stderr == nil && !c.hasStatus:
		return fmt.Sprintf("Command '%s' executes", c.invocation)
	case c.stdout == nil && c.stderr == nil:
		return fmt.Sprintf("Command '%s' returns '%d'", c.invocation, c.status)
	default:
		verb := "executes with"
		if c.hasStatus {
			verb = fmt.Sprintf("returns '%d' with", c.status)
		}
		desc := verb
		if c.stdout != nil {
			desc += c.stdout.Describe("stdout")
		}
		if c.stdout != nil && c.stderr != nil {
			desc += " and"
		}
		if c.stderr != nil {
			desc += c.stderr.Describe("stderr")
		}
		return fmt.Sprintf("Command '%s' %s", c.invocation, desc)
	}
}

// Load implements [specsheet.RunnableCheck].
func (c *CommandCheck) Load(env *specsheet.Environment) error {
	env.Shell.Prime(c.invocation)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *CommandCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	ran, err := env.Shell.Query(ctx, ex, c.invocation)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	results := []specsheet.Result{specsheet.PassedResult(commandExecuted{})}

	if c.hasStatus {
		if ran.ExitReason.Is(c.status) {
			results = append(results, specsheet.PassedResult(statusCodeMatches{}))
		} else {
			results = append(results, specsheet.FailedResult(exitReasonMismatch{ran.ExitReason}))
		}
	}

	if c.stdout != nil {
		results = append(results, labeledContentsResult("stdout", c.stdout.Check(ran.StdoutBytes())))
	}
	if c.stderr != nil {
		results = append(results, labeledContentsResult("stderr", c.stderr.Check(ran.StderrBytes())))
	}
	return results
}

// labeledContentsResult prefixes a ContentsMatcher's verdict with the
// stream it came from, matching the original's "{stream} {verdict}"
// rendering for the cmd check's stdout and stderr.
func labeledContentsResult(stream string, r specsheet.Result) specsheet.Result {
	switch r.State {
	case specsheet.Passed:
		return specsheet.PassedResult(labeledStringer{stream, r.Pass})
	default:
		return specsheet.FailedResult(labeledStringer{stream, r.Fail})
	}
}

type labeledStringer struct {
	label string
	inner fmt.Stringer
}

func (l labeledStringer) String() string { return fmt.Sprintf("%s %s", l.label, l.inner) }

// CommandOutput implements [specsheet.CommandOutputter] by delegating
// to the wrapped contents result, if it carries one.
func (l labeledStringer) CommandOutput() (label, output string, ok bool) {
	if co, ok := l.inner.(specsheet.CommandOutputter); ok {
		return co.CommandOutput()
	}
	return "", "", false
}

// DiffOutput implements [specsheet.DiffOutputter] by delegating to the
// wrapped contents result, if it carries one.
func (l labeledStringer) DiffOutput() (label, expected, actual string, ok bool) {
	if do, ok := l.inner.(specsheet.DiffOutputter); ok {
		return do.DiffOutput()
	}
	return "", "", "", false
}

type commandExecuted struct{}

func (commandExecuted) String() string { return "command was executed" }

type statusCodeMatches struct{}

func (statusCodeMatches) String() string { return "status code matches" }

type exitReasonMismatch struct {
	reason exec.ExitReason
}

func (e exitReasonMismatch) String() string {
	if status, ok := e.reason.StatusCode(); ok {
		return fmt.Sprintf("command exited with status code '%d'", status)
	}
	return fmt.Sprintf("command exited with reason '%s'", e.reason)
}
