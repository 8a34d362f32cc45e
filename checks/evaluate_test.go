//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §8 "Testable Properties" — the six worked
// Evaluate examples, driven here against FuncRunX stubs the same way
// _examples/original_source/spec_checks exercises its check() methods
// against fixture adapters.
//

package checks

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/analysis"
	"github.com/bassosimone/specsheet/exec"
)

// TestEvaluateCommandReturnsExpectedStatus covers scenario 1: a `cmd`
// check asserting an exit status against a stubbed shell.
func TestEvaluateCommandReturnsExpectedStatus(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"shell":  specsheet.NewString("ls"),
		"status": specsheet.NewInt(0),
	})
	c, err := ReadCommandCheck(v)
	require.NoError(t, err)
	assert.Equal(t, "Command 'ls' returns '0'", c.String())

	env := &specsheet.Environment{
		Shell: adapters.FuncRunShell{
			QueryFunc: func(ctx context.Context, ex *exec.Executor, inv exec.Invocation) (*exec.RanCommand, error) {
				return &exec.RanCommand{ExitReason: exec.StatusReason(0)}, nil
			},
		},
	}
	require.NoError(t, c.Load(env))

	results := c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 2)
	assert.True(t, results[0].IsPassed())
	assert.Equal(t, "command was executed", results[0].String())
	assert.True(t, results[1].IsPassed())
	assert.Equal(t, "status code matches", results[1].String())
}

// TestEvaluateAptPackage covers scenario 2: an `apt` check against a
// stubbed package-list adapter, for both the matching and mismatched
// version branches.
func TestEvaluateAptPackage(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"package": specsheet.NewString("wibble"),
		"version": specsheet.NewString("v3.1.4"),
	})
	c, err := ReadAptCheck(v)
	require.NoError(t, err)

	env := &specsheet.Environment{
		Apt: adapters.FuncRunPackageList{
			FindPackageFunc: func(ctx context.Context, ex *exec.Executor, name string) (string, bool, error) {
				assert.Equal(t, "wibble", name)
				return "v3.1.4", true, nil
			},
		},
	}
	require.NoError(t, c.Load(env))
	results := c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 2)
	assert.True(t, results[0].IsPassed())
	assert.True(t, results[1].IsPassed())
	assert.Equal(t, "version 'v3.1.4' is installed", results[1].String())

	env.Apt = adapters.FuncRunPackageList{
		FindPackageFunc: func(ctx context.Context, ex *exec.Executor, name string) (string, bool, error) {
			return "v2.2.8", true, nil
		},
	}
	results = c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 2)
	assert.True(t, results[0].IsPassed())
	assert.False(t, results[1].IsPassed())
}

// TestEvaluateTapStream covers scenario 3: a `tap` check parsing a
// TAP stream where one sub-test fails but the reported count matches.
func TestEvaluateTapStream(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"shell": specsheet.NewString("./t"),
	})
	c, err := ReadTapCheck(v)
	require.NoError(t, err)

	env := &specsheet.Environment{
		Shell: adapters.FuncRunShell{
			QueryFunc: func(ctx context.Context, ex *exec.Executor, inv exec.Invocation) (*exec.RanCommand, error) {
				return &exec.RanCommand{
					StdoutLines: []exec.Line{
						{Text: "1..2"},
						{Text: "ok 1 - a"},
						{Text: "not ok 2 - b"},
					},
				}, nil
			},
		},
	}
	require.NoError(t, c.Load(env))

	results := c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 3)
	assert.True(t, results[0].IsPassed())
	assert.Equal(t, "TAP test #1 passed (a)", results[0].String())
	assert.False(t, results[1].IsPassed())
	assert.Equal(t, "TAP test #2 failed (b)", results[1].String())
	assert.True(t, results[2].IsPassed())
	assert.Equal(t, "correct number (2) of tests run", results[2].String())
}

// TestEvaluateDNSRecord covers scenario 4: a `dns` check against a
// stubbed resolver, for the matching, mismatched, and missing cases.
func TestEvaluateDNSRecord(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"domain": specsheet.NewString("x.example"),
		"type":   specsheet.NewString("A"),
		"value":  specsheet.NewString("1.2.3.4"),
	})
	c, err := ReadDnsCheck(v)
	require.NoError(t, err)

	stub := func(answers []string) *specsheet.Environment {
		return &specsheet.Environment{
			DNS: adapters.FuncRunDNS{
				ResolveFunc: func(ctx context.Context, ex *exec.Executor, req adapters.DNSRequest) ([]string, error) {
					return answers, nil
				},
			},
		}
	}

	env := stub([]string{"1.2.3.4"})
	require.NoError(t, c.Load(env))
	results := c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsPassed())
	assert.Equal(t, "value matches", results[0].String())

	env = stub([]string{"9.9.9.9"})
	results = c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 1)
	assert.False(t, results[0].IsPassed())
	assert.Equal(t, "values do not match; got 9.9.9.9", results[0].String())

	env = stub(nil)
	results = c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 1)
	assert.False(t, results[0].IsPassed())
	assert.Equal(t, "no value present", results[0].String())
}

// TestEvaluateHTTPResponse covers scenario 5: an `http` check against
// a stubbed client, for a passing JSON response and a failing HTML
// one.
func TestEvaluateHTTPResponse(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"url":          specsheet.NewString("https://h/"),
		"status":       specsheet.NewInt(200),
		"content_type": specsheet.NewString("JSON"),
	})
	c, err := ReadHttpCheck(v)
	require.NoError(t, err)
	env := &specsheet.Environment{Rewrites: specsheet.NewRewrites()}

	env.HTTP = adapters.FuncRunHTTP{
		QueryFunc: func(ctx context.Context, ex *exec.Executor, req adapters.HTTPRequest) (adapters.HTTPResponse, error) {
			h := make(http.Header)
			h.Set("Content-Type", "application/json")
			return adapters.HTTPResponse{Status: 200, Headers: h}, nil
		},
	}
	require.NoError(t, c.Load(env))
	results := c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 3)
	assert.True(t, results[0].IsPassed())
	assert.True(t, results[1].IsPassed())
	assert.True(t, results[2].IsPassed())

	env.HTTP = adapters.FuncRunHTTP{
		QueryFunc: func(ctx context.Context, ex *exec.Executor, req adapters.HTTPRequest) (adapters.HTTPResponse, error) {
			h := make(http.Header)
			h.Set("Content-Type", "text/html")
			return adapters.HTTPResponse{Status: 500, Headers: h}, nil
		},
	}
	results = c.Evaluate(context.Background(), nil, env)
	require.Len(t, results, 3)
	assert.True(t, results[0].IsPassed())
	assert.False(t, results[1].IsPassed())
	assert.Equal(t, "HTTP status is '500'", results[1].String())
	assert.False(t, results[2].IsPassed())
	assert.Equal(t, "Content-Type is 'text/html'", results[2].String())
}

// TestEvaluateCorrelatesFailuresOnSharedPath covers scenario 6: three
// failing fs checks that all touch the same path correlate into a
// single bucket, the way [specsheet.CheckSet.Run] feeds [analysis.Table].
func TestEvaluateCorrelatesFailuresOnSharedPath(t *testing.T) {
	missing := &FSCheck{path: "/etc/x", missing: true}
	wrongKind := &FSCheck{path: "/etc/x", kind: fsKindDirectory}
	badMode := &FSCheck{path: "/etc/x", octalMode: "0644"}

	table := analysis.NewTable[string]()
	for _, c := range []*FSCheck{missing, wrongKind, badMode} {
		table.Add(c.Type()+":"+c.String(), c.DataPoints(), false)
	}

	correlations := table.ResolveCorrelations()
	require.Len(t, correlations, 1)
	assert.Equal(t, analysis.PathDataPoint("/etc/x"), correlations[0].Property)
	assert.Equal(t, 3, correlations[0].Count)
}
