//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/contents.rs
//
// The original panics when "matches" is combined with "file" or
// "empty"; per the corrected behavior this surfaces as a read error
// instead (see spec's documented open-question fix).
//

package checks

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bassosimone/specsheet"
)

// ContentsMatcher asserts a property of a byte stream obtained from a
// command's output, a file's contents, or an HTTP response body.
type ContentsMatcher struct {
	kind    contentsKind
	pattern string
	matches bool
	path    string
}

type contentsKind int

const (
	kindLineRegex contentsKind = iota
	kindStringMatch
	kindFileMatch
	kindShouldBeEmpty
	kindShouldBeNonEmpty
)

// Describe renders a short clause describing this matcher, for use in
// a check's Display-equivalent String method.
func (m ContentsMatcher) Describe(noun string) string {
	switch m.kind {
	case kindLineRegex:
		if m.matches {
			return fmt.Sprintf(" %s matching regex '/%s/'", noun, m.pattern)
		}
		return fmt.Sprintf(" %s not matching regex '/%s/'", noun, m.pattern)
	case kindStringMatch:
		if m.matches {
			return fmt.Sprintf(" %s containing '%s'", noun, m.pattern)
		}
		return fmt.Sprintf(" %s not containing '%s'", noun, m.pattern)
	case kindFileMatch:
		return fmt.Sprintf(" %s matching file '%s'", noun, m.path)
	case kindShouldBeEmpty:
		return fmt.Sprintf(" empty %s", noun)
	default:
		return fmt.Sprintf(" non-empty %s", noun)
	}
}

// describeBare renders m without a leading noun, for callers (like the
// fs check) that build their own surrounding sentence.
func (m ContentsMatcher) describeBare() string {
	switch m.kind {
	case kindLineRegex:
		if m.matches {
			return fmt.Sprintf(" matches regex '/%s/'", m.pattern)
		}
		return fmt.Sprintf(" does not match regex '/%s/'", m.pattern)
	case kindStringMatch:
		if m.matches {
			return fmt.Sprintf(" contains string '%s'", m.pattern)
		}
		return fmt.Sprintf(" does not contain string '%s'", m.pattern)
	case kindFileMatch:
		return fmt.Sprintf(" has the contents of file '%s'", m.path)
	case kindShouldBeEmpty:
		return " is empty"
	default:
		return " is not empty"
	}
}

// ReadContentsMatcher parses a "stdout"/"stderr"/"body" sub-table into
// a [ContentsMatcher].
func ReadContentsMatcher(name string, v specsheet.Value) (ContentsMatcher, error) {
	if err := v.EnsureTable(name); err != nil {
		return ContentsMatcher{}, err
	}
	if err := v.EnsureOnlyKeys([]string{"regex", "string", "file", "empty", "matches"}); err != nil {
		return ContentsMatcher{}, err
	}

	matchesVal, hasMatches := v.Get("matches")
	matches := true
	if hasMatches {
		b, err := matchesVal.BooleanOrError("matches")
		if err != nil {
			return ContentsMatcher{}, err
		}
		matches = b
	}

	if regexVal, ok := v.Get("regex"); ok {
		re, err := regexVal.StringOrError("regex")
		if err != nil {
			return ContentsMatcher{}, err
		}
		if re == "" {
			return ContentsMatcher{}, specsheet.NewInvalidValue(name, regexVal, "it must not be empty")
		}
		return ContentsMatcher{kind: kindLineRegex, pattern: re, matches: matches}, nil
	}

	if stringVal, ok := v.Get("string"); ok {
		s, err := stringVal.StringOrError("string")
		if err != nil {
			return ContentsMatcher{}, err
		}
		if s == "" {
			return ContentsMatcher{}, specsheet.NewInvalidValue(name, stringVal, "it must not be empty")
		}
		return ContentsMatcher{kind: kindStringMatch, pattern: s, matches: matches}, nil
	}

	if fileVal, ok := v.Get("file"); ok {
		if hasMatches {
			return ContentsMatcher{}, specsheet.NewConflict("matches")
		}
		path, err := fileVal.StringOrError("file")
		if err != nil {
			return ContentsMatcher{}, err
		}
		return ContentsMatcher{kind: kindFileMatch, path: path}, nil
	}

	if emptyVal, ok := v.Get("empty"); ok {
		if hasMatches {
			return ContentsMatcher{}, specsheet.NewConflict("matches")
		}
		b, err := emptyVal.BooleanOrError("empty")
		if err != nil {
			return ContentsMatcher{}, err
		}
		if b {
			return ContentsMatcher{kind: kindShouldBeEmpty}, nil
		}
		return ContentsMatcher{kind: kindShouldBeNonEmpty}, nil
	}

	return ContentsMatcher{}, specsheet.NewInvalidValue(name, v, "it must declare regex, string, file, or empty")
}

// ContentsPass is the successful outcome of evaluating a [ContentsMatcher].
type ContentsPass int

const (
	OutputMatchesRegex ContentsPass = iota
	OutputRegexMismatch
	OutputMatchesString
	OutputStringMismatch
	OutputMatchesFile
	OutputEmpty
	OutputNonEmpty
)

// String implements [fmt.Stringer].
func (p ContentsPass) String() string {
	switch p {
	case OutputMatchesRegex:
		return "matches regex"
	case OutputRegexMismatch:
		return "does not match regex"
	case OutputMatchesString:
		return "matches string"
	case OutputStringMismatch:
		return "does not match string"
	case OutputMatchesFile:
		return "matches file"
	case OutputEmpty:
		return "is empty"
	default:
		return "is non-empty"
	}
}

// ContentsFail is the failed outcome of evaluating a [ContentsMatcher].
type ContentsFail struct {
	kind     contentsFailKind
	got      string
	expected string
	err      error
}

type contentsFailKind int

const (
	failInvalidRegex contentsFailKind = iota
	failRegexMismatch
	failMatchesRegex
	failStringMismatch
	failMatchesString
	failFileMismatch
	failIOReadingFile
	failNotEmpty
	failEmpty
)

// String implements [fmt.Stringer].
func (f ContentsFail) String() string {
	switch f.kind {
	case failInvalidRegex:
		return fmt.Sprintf("invalid regex: '%s'", f.err)
	case failRegexMismatch:
		return "did not match the regex"
	case failMatchesRegex:
		return "matched the regex"
	case failStringMismatch:
		return "did not match the string"
	case failMatchesString:
		return "matched the string"
	case failFileMismatch:
		return "did not match the file"
	case failIOReadingFile:
		return fmt.Sprintf("I/O error reading file %s: %s", f.expected, f.err)
	case failNotEmpty:
		return "was not empty"
	default:
		return "was empty"
	}
}

// CommandOutput implements [specsheet.CommandOutputter].
func (f ContentsFail) CommandOutput() (label string, output string, ok bool) {
	switch f.kind {
	case failRegexMismatch, failStringMismatch, failNotEmpty:
		return "Command output:", f.got, true
	default:
		return "", "", false
	}
}

// DiffOutput implements [specsheet.DiffOutputter].
func (f ContentsFail) DiffOutput() (label, expected, actual string, ok bool) {
	if f.kind == failFileMismatch {
		return "Difference between expected and got:", f.expected, f.got, true
	}
	return "", "", "", false
}

// Check evaluates m against contents, returning either a [specsheet.Result]
// of state Passed carrying a [ContentsPass], or one of state Failed
// carrying a [ContentsFail].
func (m ContentsMatcher) Check(contents []byte) specsheet.Result {
	switch m.kind {
	case kindLineRegex:
		re, err := regexp.Compile("(?m)" + m.pattern)
		if err != nil {
			return specsheet.FailedResult(ContentsFail{kind: failInvalidRegex, err: err})
		}
		matched := re.Match(contents)
		if m.matches {
			if matched {
				return specsheet.PassedResult(OutputMatchesRegex)
			}
			return specsheet.FailedResult(ContentsFail{kind: failRegexMismatch, got: string(contents)})
		}
		if matched {
			return specsheet.FailedResult(ContentsFail{kind: failMatchesRegex, got: string(contents)})
		}
		return specsheet.PassedResult(OutputRegexMismatch)

	case kindStringMatch:
		found := strings.Contains(string(contents), m.pattern)
		if m.matches {
			if found {
				return specsheet.PassedResult(OutputMatchesString)
			}
			return specsheet.FailedResult(ContentsFail{kind: failStringMismatch, got: string(contents)})
		}
		if found {
			return specsheet.FailedResult(ContentsFail{kind: failMatchesString, got: string(contents)})
		}
		return specsheet.PassedResult(OutputStringMismatch)

	case kindFileMatch:
		expected, err := os.ReadFile(m.path)
		if err != nil {
			return specsheet.FailedResult(ContentsFail{kind: failIOReadingFile, expected: m.path, err: err})
		}
		if string(expected) == string(contents) {
			return specsheet.PassedResult(OutputMatchesFile)
		}
		return specsheet.FailedResult(ContentsFail{kind: failFileMismatch, expected: string(expected), got: string(contents)})

	case kindShouldBeEmpty:
		if len(contents) == 0 {
			return specsheet.PassedResult(OutputEmpty)
		}
		return specsheet.FailedResult(ContentsFail{kind: failNotEmpty, got: string(contents)})

	default: // kindShouldBeNonEmpty
		if len(contents) != 0 {
			return specsheet.PassedResult(OutputNonEmpty)
		}
		return specsheet.FailedResult(ContentsFail{kind: failEmpty})
	}
}
