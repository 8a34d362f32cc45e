// SPDX-License-Identifier: GPL-3.0-or-later

package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/specsheet"
)

func TestReadUdpCheckDefaultsToResponds(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port": specsheet.NewInt(53),
	})
	c, err := ReadUdpCheck(v)
	require.NoError(t, err)
	assert.Equal(t, "udp", c.Type())
	assert.Equal(t, "UDP port '53' responds", c.String())
}

func TestReadUdpCheckNoResponse(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port":  specsheet.NewInt(123),
		"state": specsheet.NewString("no-response"),
	})
	c, err := ReadUdpCheck(v)
	require.NoError(t, err)
	assert.Equal(t, "UDP port '123' does not respond", c.String())
}

func TestReadUdpCheckRejectsEmptySource(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port":   specsheet.NewInt(53),
		"source": specsheet.NewString(""),
	})
	_, err := ReadUdpCheck(v)
	assert.Error(t, err)
}

func TestReadUdpCheckRejectsMissingPort(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{})
	_, err := ReadUdpCheck(v)
	assert.Error(t, err)
}

func TestPortRequestSpecRewriteInterface(t *testing.T) {
	spec, err := readPortRequestSpec("udp", specsheet.NewTable(map[string]specsheet.Value{
		"port":   specsheet.NewInt(53),
		"source": specsheet.NewString("%eth0"),
	}))
	require.NoError(t, err)

	rw := specsheet.NewRewrites()
	rw.Add(specsheet.Rewrite{Kind: specsheet.InterfaceRewrite, From: "%eth0", To: "%eth1"})
	spec.rewrite(rw)

	assert.Equal(t, "%eth1", spec.source)
}
