//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/load.rs
// Uses github.com/BurntSushi/toml to parse the input document, then
// wraps each entry's check-specific fields as a [Value] tree.
//

package specsheet

import (
	"github.com/BurntSushi/toml"
)

// CheckDocument is the schema of a parsed input document: a table
// name (the check type) mapping to the list of entries under it.
type CheckDocument map[string][]CheckEntry

// CheckEntry holds the fields common to every check plus whatever
// check-specific fields haven't been deciphered yet by that check
// type's constructor.
type CheckEntry struct {
	Name   string
	Tags   []string
	Fields Value
}

// ParseDocument parses raw TOML bytes into a [CheckDocument].
func ParseDocument(data []byte) (CheckDocument, error) {
	var raw map[string][]map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}

	doc := make(CheckDocument, len(raw))
	for checkType, entries := range raw {
		converted := make([]CheckEntry, 0, len(entries))
		for _, entry := range entries {
			name, _ := entry["name"].(string)
			tags := extractTags(entry["tags"])
			delete(entry, "name")
			delete(entry, "tags")

			fields, err := FromAny(entry)
			if err != nil {
				return nil, err
			}
			converted = append(converted, CheckEntry{Name: name, Tags: tags, Fields: fields})
		}
		doc[checkType] = converted
	}
	return doc, nil
}

// extractTags normalizes the "tags" field, which may be a single
// string or an array of strings in the source document.
func extractTags(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}
