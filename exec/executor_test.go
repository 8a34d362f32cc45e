// SPDX-License-Identifier: GPL-3.0-or-later

package exec

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCommandContext(stdout, stderr string, exitCode int) func(context.Context, Invocation) *exec.Cmd {
	return func(ctx context.Context, inv Invocation) *exec.Cmd {
		script := "printf %s " + shQuote(stdout) + "; printf %s " + shQuote(stderr) + " 1>&2; exit " + itoa(exitCode)
		return exec.CommandContext(ctx, "/bin/sh", "-c", script)
	}
}

func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func TestExecutorRunSuccess(t *testing.T) {
	cfg := NewConfig()
	cfg.CommandContext = fakeCommandContext("hello\nworld", "warn", 0)
	ex := NewExecutor(cfg)

	ran, err := ex.Run(context.Background(), Invocation{Shell: "irrelevant"})
	require.NoError(t, err)
	require.NotNil(t, ran)

	assert.Equal(t, []string{"hello", "world"}, ran.StdoutText())
	assert.Equal(t, []string{"warn"}, ran.StderrText())
	assert.True(t, ran.ExitReason.Is(0))
}

func TestExecutorRunNonZeroExit(t *testing.T) {
	cfg := NewConfig()
	cfg.CommandContext = fakeCommandContext("", "", 7)
	ex := NewExecutor(cfg)

	ran, err := ex.Run(context.Background(), Invocation{Shell: "irrelevant"})
	require.NoError(t, err, "a non-zero exit is not an executor error")
	assert.True(t, ran.ExitReason.Is(7))
}

func TestExecutorRunSpawnFailure(t *testing.T) {
	cfg := NewConfig()
	cfg.CommandContext = func(ctx context.Context, inv Invocation) *exec.Cmd {
		return exec.CommandContext(ctx, "/nonexistent/binary-that-does-not-exist")
	}
	ex := NewExecutor(cfg)

	_, err := ex.Run(context.Background(), Invocation{Shell: "irrelevant"})
	require.Error(t, err)

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, ErrSpawn, execErr.Kind)
}

func TestExecutorHistoryAccumulates(t *testing.T) {
	cfg := NewConfig()
	cfg.CommandContext = fakeCommandContext("a", "", 0)
	ex := NewExecutor(cfg)

	_, err := ex.Run(context.Background(), Invocation{Shell: "one"})
	require.NoError(t, err)
	_, err = ex.Run(context.Background(), Invocation{Shell: "two"})
	require.NoError(t, err)

	assert.Len(t, ex.History(), 2)
}

func TestExecutorRunLogsLifecycleEvents(t *testing.T) {
	cfg := NewConfig()
	cfg.CommandContext = fakeCommandContext("out", "", 0)
	logger, records := newCapturingLogger()
	cfg.Logger = logger
	ex := NewExecutor(cfg)

	_, err := ex.Run(context.Background(), Invocation{Shell: "logged"})
	require.NoError(t, err)

	require.Len(t, *records, 2)
	assert.Equal(t, "execStart", (*records)[0].Message)
	assert.Equal(t, "execDone", (*records)[1].Message)
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Shell: "ls -la", Env: map[string]string{"B": "2", "A": "1"}}
	assert.Equal(t, "A=1 B=2 ls -la", inv.String())
}
