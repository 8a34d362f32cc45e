//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/src/main.rs (RunningMode
// variants, exit code constants) and
// _examples/giantswarm-muster/cmd/root.go (cobra root command shape,
// package-level Execute entry point, exit-code-from-error mapping).
//

// Command specsheet loads one or more TOML check documents, runs the
// checks they declare, and reports pass/fail results.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/checks"
	"github.com/bassosimone/specsheet/exec"
)

// Exit codes, matching the original implementation's exits module.
const (
	exitSuccess          = 0
	exitChecksHaveFailed = 1
	exitFileError        = 2
	exitOptionsError     = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root, outcome := newRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if *outcome == exitSuccess {
			return exitOptionsError
		}
	}
	return *outcome
}

type runOptions struct {
	tags         []string
	skipTags     []string
	types        []string
	skipTypes    []string
	random       bool
	rewrites     []string
	verbose      bool
	continual    bool
	delay        time.Duration
	dnsInProcess bool
}

func newRootCommand() (*cobra.Command, *int) {
	outcome := new(int)
	opts := &runOptions{}

	root := &cobra.Command{
		Use:           "specsheet [files...]",
		Short:         "Run declarative system-conformance checks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runChecks(cmd.Context(), args, opts)
			*outcome = code
			return err
		},
	}
	root.Flags().StringSliceVar(&opts.tags, "tags", nil, "only run checks carrying one of these tags")
	root.Flags().StringSliceVar(&opts.skipTags, "skip-tags", nil, "never run checks carrying one of these tags")
	root.Flags().StringSliceVar(&opts.types, "types", nil, "only run checks of these types")
	root.Flags().StringSliceVar(&opts.skipTypes, "skip-types", nil, "never run checks of these types")
	root.Flags().BoolVar(&opts.random, "random", false, "run checks in random order")
	root.Flags().StringSliceVar(&opts.rewrites, "rewrite", nil, "a 'from->to' path, %interface%, or URL rewrite rule")
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "emit structured logs to stderr")
	root.Flags().BoolVar(&opts.continual, "continual", false, "run checks repeatedly until interrupted")
	root.Flags().DurationVar(&opts.delay, "delay", 0, "delay between checks in continual mode")
	root.Flags().BoolVar(&opts.dnsInProcess, "dns-in-process", false, "resolve dns checks in-process instead of shelling out to dig")

	root.AddCommand(newListChecksCommand(outcome), newListTypesCommand(outcome), newSyntaxCheckCommand(outcome))
	return root, outcome
}

func newListChecksCommand(outcome *int) *cobra.Command {
	return &cobra.Command{
		Use:   "list-checks [files...]",
		Short: "List every check a document would load, without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadSet(args, specsheet.Filter{})
			if err != nil {
				*outcome = exitFileError
				return err
			}
			for _, line := range set.ListChecks() {
				fmt.Println(line)
			}
			*outcome = exitSuccess
			return nil
		},
	}
}

func newListTypesCommand(outcome *int) *cobra.Command {
	return &cobra.Command{
		Use:   "list-types",
		Short: "List every check type this build understands",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range checks.Types() {
				fmt.Println(t)
			}
			*outcome = exitSuccess
			return nil
		},
	}
}

func newSyntaxCheckCommand(outcome *int) *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse and load documents without running their checks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadSet(args, specsheet.Filter{}); err != nil {
				*outcome = exitFileError
				return err
			}
			*outcome = exitSuccess
			return nil
		},
	}
}

func stateLabel(s specsheet.ResultState) string {
	switch s {
	case specsheet.Passed:
		return "pass"
	case specsheet.Failed:
		return "fail"
	default:
		return "error"
	}
}

func loadSet(paths []string, filter specsheet.Filter) (*specsheet.CheckSet, error) {
	set := specsheet.NewCheckSet()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc, err := specsheet.ParseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if errs := checks.LoadAll(doc, filter, set); len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w", path, errs[0])
		}
	}
	if set.IsEmpty() {
		return nil, fmt.Errorf("no checks loaded from %v", paths)
	}
	return set, nil
}

func runChecks(ctx context.Context, paths []string, opts *runOptions) (int, error) {
	filter := specsheet.Filter{
		Tags:  specsheet.TagsFilter{Tags: opts.tags, SkipTags: opts.skipTags},
		Types: specsheet.TypesFilter{Types: opts.types, SkipTypes: opts.skipTypes},
	}
	if opts.random {
		filter.Order = specsheet.Random
	}

	rewrites := specsheet.NewRewrites()
	for _, spec := range opts.rewrites {
		rule, err := specsheet.ParseRewriteSpec(spec)
		if err != nil {
			return exitOptionsError, err
		}
		rewrites.Add(rule)
	}

	set, err := loadSet(paths, filter)
	if err != nil {
		return exitFileError, err
	}
	if filter.Order == specsheet.Random {
		set.Shuffle()
	}

	cfg := specsheet.NewConfig()
	if opts.verbose {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	cfg.DNSInProcess = opts.dnsInProcess
	env := specsheet.NewEnvironment(cfg, rewrites)
	if errs := set.PrimeCommands(env); len(errs) > 0 {
		return exitFileError, errs[0]
	}

	ex := exec.NewExecutor(cfg.ExecConfig())

	if opts.continual {
		set.RunContinual(ctx, ex, env, filter.Order, opts.delay)
		return exitSuccess, nil
	}

	section := set.Run(ctx, ex, env, nil)
	for _, output := range section.CheckOutputs {
		status := "PASS"
		if !output.Passed {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s: %s\n", status, output.Type, output.Name)
		for _, r := range output.Results {
			fmt.Printf("    %s: %s\n", stateLabel(r.State), r.Message)
		}
	}
	fmt.Printf("%d checks, %d passed, %d failed, %d errored\n",
		section.Totals.CheckCount, section.Totals.PassCount, section.Totals.FailCount, section.Totals.ErrCount)

	if section.Totals.FailCount > 0 || section.Totals.ErrCount > 0 {
		return exitChecksHaveFailed, nil
	}
	return exitSuccess, nil
}
