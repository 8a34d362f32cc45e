//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/hashes.rs
//

package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/exec"
)

// HashCheck asserts a file's digest under a named algorithm equals an
// expected hex string.
type HashCheck struct {
	path      string
	algorithm string
	expected  string
}

// ReadHashCheck parses a "[[hash]]" table entry.
func ReadHashCheck(v specsheet.Value) (*HashCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"path", "algorithm", "hash"}); err != nil {
		return nil, err
	}

	pathVal, err := v.GetOrReadError("path")
	if err != nil {
		return nil, err
	}
	path, err := pathVal.StringOrError("path")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, specsheet.NewInvalidValue("path", pathVal, "it must not be empty")
	}

	algoVal, err := v.GetOrReadError("algorithm")
	if err != nil {
		return nil, err
	}
	algoRaw, err := algoVal.StringOrError("algorithm")
	if err != nil {
		return nil, err
	}
	algorithm := strings.ToLower(algoRaw)
	if !isSupportedHashAlgorithm(algorithm) {
		return nil, specsheet.NewInvalidValue("algorithm", algoVal, "it must be an algorithm such as 'md5', 'sha256'...")
	}

	hashVal, err := v.GetOrReadError("hash")
	if err != nil {
		return nil, err
	}
	expected, err := hashVal.StringOrError("hash")
	if err != nil {
		return nil, err
	}

	return &HashCheck{path: path, algorithm: algorithm, expected: expected}, nil
}

func isSupportedHashAlgorithm(algorithm string) bool {
	for _, a := range adapters.HashAlgorithms() {
		if a == algorithm {
			return true
		}
	}
	return false
}

// Type implements [specsheet.Check].
func (c *HashCheck) Type() string { return "hash" }

// String implements [fmt.Stringer].
func (c *HashCheck) String() string {
	return fmt.Sprintf("File '%s' has %s hash '%s'", c.path, c.algorithm, c.expected)
}

// Load implements [specsheet.RunnableCheck].
func (c *HashCheck) Load(env *specsheet.Environment) error {
	env.Hashes.Prime(c.path, c.algorithm)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *HashCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	got, err := env.Hashes.Digest(ctx, ex, c.path, c.algorithm)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}
	if strings.EqualFold(got, c.expected) {
		return []specsheet.Result{specsheet.PassedResult(hashesMatch{})}
	}
	return []specsheet.Result{specsheet.FailedResult(hashMismatch{got})}
}

type hashesMatch struct{}

func (hashesMatch) String() string { return "hashes match" }

type hashMismatch struct{ got string }

func (f hashMismatch) String() string { return fmt.Sprintf("hash mismatch, got '%s'", f.got) }
