//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/src/filter.rs
//

package specsheet

// RunningOrder controls the order in which loaded checks run.
type RunningOrder int

// RunningOrder values.
const (
	ByType RunningOrder = iota
	Random
)

// Filter bundles the tag filter, type filter, and running order applied
// when a document is loaded into a [CheckSet].
type Filter struct {
	Tags  TagsFilter
	Types TypesFilter
	Order RunningOrder
}

// TagsFilter decides which checks to load by their tags.
type TagsFilter struct {
	Tags     []string
	SkipTags []string
}

// TypesFilter decides which checks to load by their type name.
type TypesFilter struct {
	Types     []string
	SkipTypes []string
}

// ShouldIncludeTags reports whether a check carrying tags should be
// loaded. A skip-tag match always wins; otherwise an empty positive
// list includes everything, and a non-empty one requires at least one
// match.
func (f TagsFilter) ShouldIncludeTags(tags []string) bool {
	if anyMatch(f.SkipTags, tags) {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	return anyMatch(f.Tags, tags)
}

// ShouldIncludeType reports whether a check of the given type should be
// loaded, following the same skip-list-wins precedence as
// [TagsFilter.ShouldIncludeTags].
func (f TypesFilter) ShouldIncludeType(checkType string) bool {
	if contains(f.SkipTypes, checkType) {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	return contains(f.Types, checkType)
}

func anyMatch(candidates, values []string) bool {
	for _, c := range candidates {
		if contains(values, c) {
			return true
		}
	}
	return false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
