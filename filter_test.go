//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package specsheet

import "testing"

func TestTagsFilterAllowAll(t *testing.T) {
	var f TagsFilter
	if !f.ShouldIncludeTags(nil) {
		t.Error("expected empty filter to include empty tags")
	}
	if !f.ShouldIncludeTags([]string{"wibble"}) {
		t.Error("expected empty filter to include arbitrary tags")
	}
}

func TestTypesFilterAllowAll(t *testing.T) {
	var f TypesFilter
	if !f.ShouldIncludeType("apt") {
		t.Error("expected empty filter to include apt")
	}
	if !f.ShouldIncludeType("systemd") {
		t.Error("expected empty filter to include systemd")
	}
}

func TestTypesFilterOnlyCertainTypes(t *testing.T) {
	f := TypesFilter{Types: []string{"apt"}}
	if !f.ShouldIncludeType("apt") {
		t.Error("expected apt to be included")
	}
	if f.ShouldIncludeType("systemd") {
		t.Error("expected systemd to be excluded")
	}
}

func TestTypesFilterSkipCertainTypes(t *testing.T) {
	f := TypesFilter{SkipTypes: []string{"apt"}}
	if f.ShouldIncludeType("apt") {
		t.Error("expected apt to be excluded")
	}
	if !f.ShouldIncludeType("systemd") {
		t.Error("expected systemd to be included")
	}
}

func TestTagsFilterOnlyCertainTags1(t *testing.T) {
	f := TagsFilter{Tags: []string{"blue"}}
	cases := []struct {
		tags []string
		want bool
	}{
		{[]string{"blue"}, true},
		{[]string{"blue", "green"}, true},
		{[]string{"green"}, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := f.ShouldIncludeTags(c.tags); got != c.want {
			t.Errorf("ShouldIncludeTags(%v) = %v, want %v", c.tags, got, c.want)
		}
	}
}

func TestTagsFilterOnlyCertainTags2(t *testing.T) {
	f := TagsFilter{Tags: []string{"blue", "green"}}
	cases := []struct {
		tags []string
		want bool
	}{
		{[]string{"blue"}, true},
		{[]string{"blue", "green"}, true},
		{[]string{"blue", "green", "red"}, true},
		{[]string{"green"}, true},
		{[]string{"red"}, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := f.ShouldIncludeTags(c.tags); got != c.want {
			t.Errorf("ShouldIncludeTags(%v) = %v, want %v", c.tags, got, c.want)
		}
	}
}

func TestTagsFilterSkipCertainTags(t *testing.T) {
	f := TagsFilter{SkipTags: []string{"red"}}
	cases := []struct {
		tags []string
		want bool
	}{
		{[]string{"blue"}, true},
		{[]string{"blue", "red"}, false},
		{[]string{"red"}, false},
		{nil, true},
	}
	for _, c := range cases {
		if got := f.ShouldIncludeTags(c.tags); got != c.want {
			t.Errorf("ShouldIncludeTags(%v) = %v, want %v", c.tags, got, c.want)
		}
	}
}

func TestTagsFilterSkipWinsOverInclude(t *testing.T) {
	f := TagsFilter{Tags: []string{"green"}, SkipTags: []string{"red"}}
	cases := []struct {
		tags []string
		want bool
	}{
		{[]string{"blue"}, false},
		{[]string{"blue", "red"}, false},
		{[]string{"blue", "green", "red"}, false},
		{[]string{"blue", "green"}, true},
		{[]string{"green"}, true},
		{nil, false},
	}
	for _, c := range cases {
		if got := f.ShouldIncludeTags(c.tags); got != c.want {
			t.Errorf("ShouldIncludeTags(%v) = %v, want %v", c.tags, got, c.want)
		}
	}
}
