// SPDX-License-Identifier: GPL-3.0-or-later

package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/specsheet"
)

func TestReadPingCheckDefaultsToResponds(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"target": specsheet.NewString("example.com"),
	})
	c, err := ReadPingCheck(v)
	require.NoError(t, err)
	assert.Equal(t, "ping", c.Type())
	assert.Equal(t, "Pinging 'example.com' should receive a response", c.String())
}

func TestReadPingCheckNoResponse(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"target": specsheet.NewString("10.0.0.1"),
		"state":  specsheet.NewString("no-response"),
	})
	c, err := ReadPingCheck(v)
	require.NoError(t, err)
	assert.Contains(t, c.String(), "should time out")
}

func TestReadPingCheckRejectsEmptyTarget(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"target": specsheet.NewString(""),
	})
	_, err := ReadPingCheck(v)
	assert.Error(t, err)
}

func TestReadPingCheckRejectsUnknownState(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"target": specsheet.NewString("example.com"),
		"state":  specsheet.NewString("bogus"),
	})
	_, err := ReadPingCheck(v)
	assert.Error(t, err)
}

func TestReadPingCheckRejectsUnknownKey(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"target": specsheet.NewString("example.com"),
		"extra":  specsheet.NewString("nope"),
	})
	_, err := ReadPingCheck(v)
	assert.Error(t, err)
}
