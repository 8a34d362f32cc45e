// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_exec/src/error.rs

package exec

import "fmt"

// ExecErrorKind discriminates the phase in which an [*ExecError] arose.
type ExecErrorKind int

const (
	// ErrSpawn means the process could not be started.
	ErrSpawn ExecErrorKind = iota

	// ErrStdout means reading the process's stdout failed.
	ErrStdout

	// ErrWait means waiting for the process to exit failed.
	ErrWait

	// ErrStatusMismatch means the process exited with a reason the
	// adapter did not consider acceptable. Unlike the other kinds,
	// this is constructed by adapters, not by [*Executor.Run].
	ErrStatusMismatch
)

// ExecError is fatal to a single invocation. It is never promoted to a
// process-wide error: callers surface it as a CommandError sub-result.
type ExecError struct {
	Kind   ExecErrorKind
	Err    error
	Reason ExitReason
}

// NewSpawnError returns a spawn-phase [*ExecError].
func NewSpawnError(err error) *ExecError {
	return &ExecError{Kind: ErrSpawn, Err: err}
}

// NewStdoutError returns a stdout-read-phase [*ExecError].
func NewStdoutError(err error) *ExecError {
	return &ExecError{Kind: ErrStdout, Err: err}
}

// NewWaitError returns a wait-phase [*ExecError].
func NewWaitError(err error) *ExecError {
	return &ExecError{Kind: ErrWait, Err: err}
}

// NewStatusMismatchError returns a status-mismatch [*ExecError] for
// the given observed exit reason.
func NewStatusMismatchError(reason ExitReason) *ExecError {
	return &ExecError{Kind: ErrStatusMismatch, Reason: reason}
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	switch e.Kind {
	case ErrSpawn:
		return fmt.Sprintf("failed to spawn command: %s", e.Err)
	case ErrStdout:
		return fmt.Sprintf("failed to read stdout: %s", e.Err)
	case ErrWait:
		return fmt.Sprintf("failed to wait for command: %s", e.Err)
	case ErrStatusMismatch:
		return fmt.Sprintf("command exited with unexpected reason: %s", e.Reason)
	default:
		return "unknown exec error"
	}
}

// Unwrap exposes the wrapped error, when there is one, for [errors.As]/[errors.Is].
func (e *ExecError) Unwrap() error {
	return e.Err
}
