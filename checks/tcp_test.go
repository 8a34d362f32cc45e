// SPDX-License-Identifier: GPL-3.0-or-later

package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/specsheet"
)

func TestReadTcpCheckDefaultsToOpen(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port": specsheet.NewInt(8080),
	})
	c, err := ReadTcpCheck(v)
	require.NoError(t, err)
	assert.Equal(t, "tcp", c.Type())
	assert.Equal(t, "TCP port '8080' is open", c.String())
}

func TestReadTcpCheckClosed(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port":  specsheet.NewInt(22),
		"state": specsheet.NewString("closed"),
	})
	c, err := ReadTcpCheck(v)
	require.NoError(t, err)
	assert.Equal(t, "TCP port '22' is closed", c.String())
}

func TestReadTcpCheckWithAddressSourceAndUfw(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port":    specsheet.NewInt(443),
		"address": specsheet.NewString("10.0.0.5"),
		"source":  specsheet.NewString("%eth0"),
		"ufw": specsheet.NewTable(map[string]specsheet.Value{
			"allow": specsheet.NewString("443/tcp"),
		}),
	})
	c, err := ReadTcpCheck(v)
	require.NoError(t, err)
	assert.Equal(t,
		"TCP port '443' on '10.0.0.5' from interface 'eth0' (with UFW check to '443/tcp') is open",
		c.String())
}

func TestReadTcpCheckRejectsOutOfRangePort(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port": specsheet.NewInt(70000),
	})
	_, err := ReadTcpCheck(v)
	assert.Error(t, err)
}

func TestReadTcpCheckRejectsUnknownState(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"port":  specsheet.NewInt(80),
		"state": specsheet.NewString("bogus"),
	})
	_, err := ReadTcpCheck(v)
	assert.Error(t, err)
}
