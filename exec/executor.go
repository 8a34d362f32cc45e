//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_exec/src/executor.rs
// Logging pattern adapted from: bassosimone/nop's connect.go
//

package exec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"
)

// Line is one line of output tagged with the time it was observed.
type Line struct {
	Text string
	At   time.Time
}

// RanCommand is the immutable record of one completed process: the
// invocation string, the exit reason, both output streams (as
// timestamped lines), and the wall-clock runtime. It never mutates
// after being appended to an [*Executor]'s history.
type RanCommand struct {
	Invocation  string
	ExitReason  ExitReason
	StdoutLines []Line
	StderrLines []Line
	Runtime     time.Duration
}

// StdoutBytes concatenates stdout lines with newline separators.
func (r *RanCommand) StdoutBytes() []byte {
	return joinLines(r.StdoutLines)
}

// StderrBytes concatenates stderr lines with newline separators.
func (r *RanCommand) StderrBytes() []byte {
	return joinLines(r.StderrLines)
}

// StdoutText returns the bare stdout lines, without timestamps.
func (r *RanCommand) StdoutText() []string {
	return textLines(r.StdoutLines)
}

// StderrText returns the bare stderr lines, without timestamps.
func (r *RanCommand) StderrText() []string {
	return textLines(r.StderrLines)
}

func joinLines(lines []Line) []byte {
	var buf bytes.Buffer
	for i, l := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(l.Text)
	}
	return buf.Bytes()
}

func textLines(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

// Config holds the executor's dependencies, each overridable for testing.
type Config struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// Logger receives execStart/execDone events.
	//
	// Set by [NewConfig] to [DefaultSLogger].
	Logger SLogger

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time

	// CommandContext constructs the underlying [*exec.Cmd]. Overridable
	// in tests to avoid spawning a real shell.
	//
	// Set by [NewConfig] to a function invoking "/bin/sh -c".
	CommandContext func(ctx context.Context, inv Invocation) *exec.Cmd
}

// NewConfig returns a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		ErrClassifier:  DefaultErrClassifier,
		Logger:         DefaultSLogger(),
		TimeNow:        time.Now,
		CommandContext: defaultCommandContext,
	}
}

func defaultCommandContext(ctx context.Context, inv Invocation) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", inv.Shell)
	if len(inv.Env) > 0 {
		env := append([]string{}, os.Environ()...)
		for k, v := range inv.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}
	return cmd
}

// Executor runs primed invocations, capturing stdout and stderr
// concurrently with per-line timestamps, and records every run in an
// append-only history.
type Executor struct {
	cfg *Config

	mu      sync.Mutex
	history []*RanCommand
}

// NewExecutor returns an [*Executor] using cfg, or defaults if cfg is nil.
func NewExecutor(cfg *Config) *Executor {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Executor{cfg: cfg}
}

// History returns a snapshot of every [*RanCommand] run so far, in
// execution order. Safe to call concurrently with [*Executor.Run].
func (ex *Executor) History() []*RanCommand {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	out := make([]*RanCommand, len(ex.history))
	copy(out, ex.history)
	return out
}

// Run spawns inv, reads its two output streams concurrently (stdout on
// the calling goroutine, stderr on a helper goroutine), joins both
// before waiting for exit, and appends the result to the history.
//
// Status-mismatch discrimination is NOT performed here: a process that
// exits non-zero is still a successful invocation from the executor's
// point of view. Adapters decide whether an exit reason is acceptable.
func (ex *Executor) Run(ctx context.Context, inv Invocation) (*RanCommand, error) {
	t0 := ex.cfg.TimeNow()
	spanID := NewSpanID()
	ex.logExecStart(spanID, inv, t0)

	cmd := ex.cfg.CommandContext(ctx, inv)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		execErr := NewSpawnError(err)
		ex.logExecDone(spanID, inv, t0, nil, execErr)
		return nil, execErr
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		execErr := NewSpawnError(err)
		ex.logExecDone(spanID, inv, t0, nil, execErr)
		return nil, execErr
	}

	if err := cmd.Start(); err != nil {
		execErr := NewSpawnError(err)
		ex.logExecDone(spanID, inv, t0, nil, execErr)
		return nil, execErr
	}

	var stderrLines []Line
	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		stderrLines, _ = readLines(stderrPipe, ex.cfg.TimeNow)
	}()

	stdoutLines, stdoutErr := readLines(stdoutPipe, ex.cfg.TimeNow)
	<-stderrDone

	waitErr := cmd.Wait()

	if stdoutErr != nil {
		execErr := NewStdoutError(stdoutErr)
		ex.logExecDone(spanID, inv, t0, nil, execErr)
		return nil, execErr
	}

	reason, waitClassified := classifyWait(waitErr)
	if waitClassified != nil {
		execErr := NewWaitError(waitClassified)
		ex.logExecDone(spanID, inv, t0, nil, execErr)
		return nil, execErr
	}

	ran := &RanCommand{
		Invocation:  inv.String(),
		ExitReason:  reason,
		StdoutLines: stdoutLines,
		StderrLines: stderrLines,
		Runtime:     ex.cfg.TimeNow().Sub(t0),
	}

	ex.mu.Lock()
	ex.history = append(ex.history, ran)
	ex.mu.Unlock()

	ex.logExecDone(spanID, inv, t0, ran, nil)
	return ran, nil
}

// classifyWait turns the result of [*exec.Cmd.Wait] into an [ExitReason],
// or a non-nil error if the failure is not a plain exit/signal outcome
// (e.g. the binary could not be found).
func classifyWait(waitErr error) (ExitReason, error) {
	if waitErr == nil {
		return StatusReason(0), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return ExitReason{}, waitErr
	}

	if signal, ok := signalFromExitError(exitErr); ok {
		return SignalReason(signal), nil
	}

	code := exitErr.ExitCode()
	if code < 0 {
		return UnknownReason(), nil
	}
	return StatusReason(code), nil
}

func readLines(r io.Reader, timeNow func() time.Time) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var lines []Line
	for scanner.Scan() {
		lines = append(lines, Line{Text: scanner.Text(), At: timeNow()})
	}
	return lines, scanner.Err()
}

func (ex *Executor) logExecStart(spanID string, inv Invocation, t0 time.Time) {
	ex.cfg.Logger.Info(
		"execStart",
		slog.String("spanID", spanID),
		slog.String("invocation", inv.String()),
		slog.Time("t", t0),
	)
}

func (ex *Executor) logExecDone(spanID string, inv Invocation, t0 time.Time, ran *RanCommand, err error) {
	attrs := []any{
		slog.String("spanID", spanID),
		slog.String("invocation", inv.String()),
		slog.Time("t0", t0),
		slog.Time("t", ex.cfg.TimeNow()),
		slog.Any("err", err),
		slog.String("errClass", ex.cfg.ErrClassifier.Classify(err)),
	}
	if ran != nil {
		attrs = append(attrs, slog.String("exitReason", ran.ExitReason.String()))
	}
	ex.cfg.Logger.Info("execDone", attrs...)
}
