//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/src/set.rs (CheckSet::read_toml,
// dispatching each table name to its check type's reader).
//

package checks

import (
	"fmt"
	"sort"

	"github.com/bassosimone/specsheet"
)

// registry maps a document table name (e.g. "cmd", "apt", "http") to
// the constructor that parses one of its entries.
var registry = map[string]func(specsheet.Value) (specsheet.RunnableCheck, error){
	"cmd":           wrap(ReadCommandCheck),
	"tap":           wrap(ReadTapCheck),
	"apt":           wrap(ReadAptCheck),
	"homebrew":      wrap(ReadHomebrewCheck),
	"homebrew_cask": wrap(ReadHomebrewCaskCheck),
	"homebrew_tap":  wrap(ReadHomebrewTapCheck),
	"npm":           wrap(ReadNpmCheck),
	"gem":           wrap(ReadGemCheck),
	"systemd":       wrap(ReadSystemdCheck),
	"ufw":           wrap(ReadUfwCheck),
	"hash":          wrap(ReadHashCheck),
	"defaults":      wrap(ReadDefaultsCheck),
	"user":          wrap(ReadUserCheck),
	"group":         wrap(ReadGroupCheck),
	"fs":            wrap(ReadFSCheck),
	"dns":           wrap(ReadDnsCheck),
	"http":          wrap(ReadHttpCheck),
	"ping":          wrap(ReadPingCheck),
	"tcp":           wrap(ReadTcpCheck),
	"udp":           wrap(ReadUdpCheck),
}

// wrap adapts a Read<Type>Check constructor, which returns a concrete
// *XxxCheck, into the registry's uniform signature.
func wrap[T specsheet.RunnableCheck](read func(specsheet.Value) (T, error)) func(specsheet.Value) (specsheet.RunnableCheck, error) {
	return func(v specsheet.Value) (specsheet.RunnableCheck, error) {
		return read(v)
	}
}

// LoadAll walks doc's tables grouped by check type, sorted
// alphabetically by type name so two runs against the same document
// always load checks in the same order and grouping regardless of Go's
// randomized map iteration. [ParseDocument] already collapses each
// table into a map keyed by type name, so the type's position in the
// original source file is not recoverable here; sorting by name is
// the order [specsheet.CheckSet] sees checks arrive in. LoadAll parses
// every entry whose type and tags survive filter, and appends the
// resulting checks to set. It returns every read error encountered,
// prefixed by "type[index]" (by "type" alone for an unknown check
// type), continuing past individual failures so one
// bad entry doesn't hide the rest.
func LoadAll(doc specsheet.CheckDocument, filter specsheet.Filter, set *specsheet.CheckSet) []error {
	checkTypes := make([]string, 0, len(doc))
	for checkType := range doc {
		checkTypes = append(checkTypes, checkType)
	}
	sort.Strings(checkTypes)

	var errs []error
	for _, checkType := range checkTypes {
		entries := doc[checkType]
		read, known := registry[checkType]
		if !known {
			errs = append(errs, fmt.Errorf("%s: unknown check type", checkType))
			continue
		}
		if !filter.Types.ShouldIncludeType(checkType) {
			continue
		}
		for i, entry := range entries {
			if !filter.Tags.ShouldIncludeTags(entry.Tags) {
				continue
			}
			check, err := read(entry.Fields)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", checkType, i, err))
				continue
			}
			set.Add(check, entry.Name)
		}
	}
	return errs
}

// Types returns every check type name this package knows how to read,
// for the list-types CLI mode.
func Types() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}
