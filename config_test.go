// SPDX-License-Identifier: GPL-3.0-or-later

package specsheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "/bin/sh", cfg.Shell)
	assert.Equal(t, "", cfg.ErrClassifier.Classify(nil))
	assert.Equal(t, "timed_out", cfg.ErrClassifier.Classify(context.DeadlineExceeded))

	now := cfg.TimeNow()
	assert.False(t, now.IsZero())
}

func TestConfigExecConfig(t *testing.T) {
	cfg := NewConfig()
	ec := cfg.ExecConfig()
	require.NotNil(t, ec)
	assert.Equal(t, cfg.ErrClassifier, ec.ErrClassifier)
}
