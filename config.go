//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: _examples/bassosimone-nop/config.go
//

package specsheet

import (
	"time"

	"github.com/bassosimone/specsheet/exec"
)

// Config holds the shared defaults adapters and the check set use.
//
// Pass this to [NewEnvironment], and its [Config.ExecConfig] to
// [exec.NewExecutor]. All fields have sensible defaults set by [NewConfig].
type Config struct {
	// Shell names a shell binary. Neither [Config.ExecConfig] nor any
	// adapter reads it: [exec.Executor] runs invocations with "/bin/sh".
	//
	// Set by [NewConfig] to "/bin/sh".
	Shell string

	// AdapterTimeout is a per-invocation time budget. Neither
	// [Config.ExecConfig] nor any adapter reads it, so an invocation
	// runs until it exits or the caller's context ends.
	//
	// Set by [NewConfig] to 30 seconds.
	AdapterTimeout time.Duration

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [exec.DefaultErrClassifier].
	ErrClassifier exec.ErrClassifier

	// Logger is the [exec.SLogger] used for structured logging.
	//
	// Set by [NewConfig] to [exec.DefaultSLogger].
	Logger exec.SLogger

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time

	// DNSInProcess selects [adapters.InProcessDNSAdapter] over the
	// default `dig`-shelling [adapters.DNSAdapter] for the dns check.
	//
	// Set by [NewConfig] to false.
	DNSInProcess bool
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Shell:          "/bin/sh",
		AdapterTimeout: 30 * time.Second,
		ErrClassifier:  exec.DefaultErrClassifier,
		Logger:         exec.DefaultSLogger(),
		TimeNow:        time.Now,
		DNSInProcess:   false,
	}
}

// ExecConfig converts cfg into an [*exec.Config] carrying the same
// error classifier, logger, and clock.
func (cfg *Config) ExecConfig() *exec.Config {
	ec := exec.NewConfig()
	ec.ErrClassifier = cfg.ErrClassifier
	ec.Logger = cfg.Logger
	ec.TimeNow = cfg.TimeNow
	return ec
}
