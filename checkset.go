//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/src/set.rs (CheckSet, ReadyCheck,
// run_all, run_continual_batch, list_checks) and
// _examples/original_source/src/results.rs (ResultsSection, Stats).
//

package specsheet

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bassosimone/specsheet/analysis"
	"github.com/bassosimone/specsheet/exec"
)

// readyCheck pairs a loaded check with the (optional) display name
// override supplied in its document entry.
type readyCheck struct {
	check RunnableCheck
	name  string
}

// CheckSet is the set of checks loaded from one or more input
// documents, ready to be primed and run.
type CheckSet struct {
	checks []readyCheck
}

// NewCheckSet returns an empty [*CheckSet].
func NewCheckSet() *CheckSet {
	return &CheckSet{}
}

// Add appends a loaded check to the set, under the given display-name
// override (empty if none was given in the document).
func (cs *CheckSet) Add(check RunnableCheck, name string) {
	cs.checks = append(cs.checks, readyCheck{check: check, name: name})
}

// Shuffle reorders the set's checks uniformly at random, used when the
// active [RunningOrder] is [Random].
func (cs *CheckSet) Shuffle() {
	rand.Shuffle(len(cs.checks), func(i, j int) {
		cs.checks[i], cs.checks[j] = cs.checks[j], cs.checks[i]
	})
}

// IsEmpty reports whether the set has no checks loaded. Empty
// documents are usually a mistake rather than a vacuous success.
func (cs *CheckSet) IsEmpty() bool {
	return len(cs.checks) == 0
}

// ListChecks formats each check as "[type] description", one entry
// per loaded check, for the list-checks CLI mode.
func (cs *CheckSet) ListChecks() []string {
	out := make([]string, 0, len(cs.checks))
	for _, rc := range cs.checks {
		out = append(out, fmt.Sprintf("[%s] %s", rc.check.Type(), rc.check))
	}
	return out
}

// PrimeCommands calls Load on every check in the set, letting each one
// install its invocation(s) into env's adapters before [CheckSet.Run]
// or [CheckSet.RunContinual] executes them.
func (cs *CheckSet) PrimeCommands(env *Environment) []error {
	var errs []error
	for _, rc := range cs.checks {
		if err := rc.check.Load(env); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rc.check.Type(), err))
		}
	}
	return errs
}

// ResultMessage is one rendered sub-result line of a check output.
type ResultMessage struct {
	State   ResultState
	Message string
}

// CheckOutput is the rendered outcome of running one check.
type CheckOutput struct {
	Name    string
	Type    string
	Passed  bool
	Message string
	Results []ResultMessage
}

// Stats tallies check/pass/fail/error counts across a results section.
type Stats struct {
	CheckCount int
	PassCount  int
	FailCount  int
	ErrCount   int
}

// ResultsSection is the result of running an entire [CheckSet] once.
type ResultsSection struct {
	CheckOutputs []CheckOutput
	Totals       Stats
}

// Run executes every check in the set once, in its current order, and
// correlates properties into table if table is non-nil.
func (cs *CheckSet) Run(ctx context.Context, ex *exec.Executor, env *Environment, table *analysis.Table[string]) ResultsSection {
	var section ResultsSection
	for _, rc := range cs.checks {
		output := runOne(ctx, ex, env, rc)
		section.CheckOutputs = append(section.CheckOutputs, output)

		section.Totals.CheckCount++
		if output.Passed {
			section.Totals.PassCount++
		} else {
			section.Totals.FailCount++
		}
		for _, r := range output.Results {
			if r.State == CommandError {
				section.Totals.ErrCount++
			}
		}

		if table != nil {
			if dp, ok := rc.check.(DataPointer); ok {
				table.Add(rc.check.Type()+":"+output.Message, dp.DataPoints(), output.Passed)
			}
		}
	}
	return section
}

// RunContinual runs every check in the set repeatedly, honoring order
// (reshuffled before each batch when [Random]) and sleeping delay
// between checks within a batch, until ctx is canceled.
func (cs *CheckSet) RunContinual(ctx context.Context, ex *exec.Executor, env *Environment, order RunningOrder, delay time.Duration) {
	for ctx.Err() == nil {
		if order == Random {
			cs.Shuffle()
		}
		for _, rc := range cs.checks {
			if ctx.Err() != nil {
				return
			}
			runOne(ctx, ex, env, rc)
			if delay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(delay):
				}
			}
		}
	}
}

func runOne(ctx context.Context, ex *exec.Executor, env *Environment, rc readyCheck) CheckOutput {
	results := rc.check.Evaluate(ctx, ex, env)

	passed := true
	messages := make([]ResultMessage, 0, len(results))
	for _, r := range results {
		if !r.IsPassed() {
			passed = false
		}
		messages = append(messages, ResultMessage{State: r.State, Message: r.String()})
	}

	name := rc.name
	if name == "" {
		name = rc.check.String()
	}

	return CheckOutput{
		Name:    name,
		Type:    rc.check.Type(),
		Passed:  passed,
		Message: rc.check.String(),
		Results: messages,
	}
}
