// SPDX-License-Identifier: GPL-3.0-or-later

package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/specsheet"
)

func TestTypesListsEveryRegisteredCheck(t *testing.T) {
	types := Types()
	assert.Contains(t, types, "http")
	assert.Contains(t, types, "tcp")
	assert.Contains(t, types, "udp")
	assert.Contains(t, types, "ping")
	assert.Contains(t, types, "fs")
	assert.Len(t, types, 20)
}

func TestLoadAllDispatchesKnownType(t *testing.T) {
	doc := specsheet.CheckDocument{
		"ping": {
			{Name: "reaches host", Fields: specsheet.NewTable(map[string]specsheet.Value{
				"target": specsheet.NewString("example.com"),
			})},
		},
	}
	set := specsheet.NewCheckSet()
	errs := LoadAll(doc, specsheet.Filter{}, set)
	require.Empty(t, errs)
	require.False(t, set.IsEmpty())
	assert.Equal(t, []string{"[ping] Pinging 'example.com' should receive a response"}, set.ListChecks())
}

func TestLoadAllReportsUnknownType(t *testing.T) {
	doc := specsheet.CheckDocument{
		"not_a_real_type": {
			{Name: "", Fields: specsheet.NewTable(nil)},
		},
	}
	set := specsheet.NewCheckSet()
	errs := LoadAll(doc, specsheet.Filter{}, set)
	require.Len(t, errs, 1)
	assert.True(t, set.IsEmpty())
}

func TestLoadAllSkipsFilteredTypes(t *testing.T) {
	doc := specsheet.CheckDocument{
		"ping": {
			{Name: "", Fields: specsheet.NewTable(map[string]specsheet.Value{
				"target": specsheet.NewString("example.com"),
			})},
		},
	}
	set := specsheet.NewCheckSet()
	filter := specsheet.Filter{Types: specsheet.TypesFilter{SkipTypes: []string{"ping"}}}
	errs := LoadAll(doc, filter, set)
	require.Empty(t, errs)
	assert.True(t, set.IsEmpty())
}

func TestLoadAllContinuesPastReadErrors(t *testing.T) {
	doc := specsheet.CheckDocument{
		"ping": {
			{Name: "bad", Fields: specsheet.NewTable(map[string]specsheet.Value{
				"target": specsheet.NewString(""),
			})},
			{Name: "good", Fields: specsheet.NewTable(map[string]specsheet.Value{
				"target": specsheet.NewString("example.com"),
			})},
		},
	}
	set := specsheet.NewCheckSet()
	errs := LoadAll(doc, specsheet.Filter{}, set)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, len(set.ListChecks()))
}
