// SPDX-License-Identifier: GPL-3.0-or-later

// Package specsheet implements the check-execution engine at the core
// of a declarative system-conformance tester: it loads a typed, tagged,
// filtered batch of heterogeneous assertions from a structured TOML
// document, coordinates a small population of external-command
// adapters so each distinct invocation runs at most once, interprets
// adapter output against each assertion's predicate into an ordered
// list of pass/fail/error sub-results, and analyses the corpus of
// failures for common properties.
//
// # Core Abstractions
//
// [Value] is the dynamically typed document-tree node every check
// variant's reader walks. [ReadError] is the sum type produced when a
// node fails validation. [Rewrites] transforms declared path,
// interface, and URL values before they are stored on a loaded check.
//
// [Check] identifies a loaded assertion. [Result] is the sum type a
// check evaluation produces, one per declared predicate, in the order
// of declaration. [RunnableCheck] is the two-phase (load, then
// evaluate) contract every check variant implements against an
// [*Environment] of command adapters.
//
// [CheckSet] holds a filtered, ordered batch of loaded checks and
// drives the two-phase load/evaluate protocol described in
// [github.com/bassosimone/specsheet/exec]'s [exec.Cell] documentation.
//
// # Ambient Stack
//
// Structured logging follows [exec.SLogger]: disabled by default,
// enabled by supplying a [*slog.Logger]. [Config] carries shared
// defaults (shell path, adapter timeouts, error classifier, clock),
// constructed via [NewConfig].
package specsheet
