//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: bassosimone/nop's errclassifier.go
//

package exec

import "github.com/bassosimone/specsheet/errclass"

// ErrClassifier classifies errors into categorical strings for analysis.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier classifies process-execution and filesystem
// errors using [errclass.New].
var DefaultErrClassifier = ErrClassifierFunc(errclass.New)
