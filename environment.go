//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Command Adapters" (one adapter per external tool).
//

package specsheet

import "github.com/bassosimone/specsheet/adapters"

// Environment bags together every adapter a [RunnableCheck] may depend
// on. A check variant's Load method picks the one field its capability
// interface needs; Evaluate passes the same *Environment through so
// the adapter's cache is shared across the whole check set. Shell, the
// package-list family, HTTP, DNS, Net, and FS hold their capability
// interface types rather than concrete adapters, so tests can swap in
// a FuncRunShell/FuncRunPackageList/FuncRunHTTP/FuncRunDNS/FuncRunNet/
// FuncRunFS stub without touching the check under test.
type Environment struct {
	Shell        adapters.RunShell
	Apt          adapters.RunPackageList
	Homebrew     adapters.RunPackageList
	HomebrewCask adapters.RunPackageList
	HomebrewTap  adapters.RunPackageList
	Npm          adapters.RunPackageList
	Gem          adapters.RunPackageList
	Defaults     *adapters.DefaultsAdapter
	Systemd      *adapters.SystemdAdapter
	Ufw          *adapters.UfwAdapter
	Hashes       *adapters.HashAdapter
	HTTP         adapters.RunHTTP
	DNS          adapters.RunDNS
	Ping         *adapters.PingAdapter
	Net          adapters.RunNet
	FS           adapters.RunFS
	Passwd       *adapters.PasswdAdapter
	Rewrites     *Rewrites
}

// NewEnvironment builds an [*Environment] with one instance of every
// adapter, wired against cfg's shared defaults. When cfg.DNSInProcess
// is set, the dns check is backed by [adapters.InProcessDNSAdapter]
// instead of the default `dig`-shelling [adapters.DNSAdapter].
func NewEnvironment(cfg *Config, rewrites *Rewrites) *Environment {
	if rewrites == nil {
		rewrites = NewRewrites()
	}
	var dns adapters.RunDNS = adapters.NewDNSAdapter()
	if cfg.DNSInProcess {
		dns = adapters.NewInProcessDNSAdapter()
	}
	return &Environment{
		Shell:        adapters.NewShellAdapter(),
		Apt:          adapters.NewAptAdapter(),
		Homebrew:     adapters.NewHomebrewAdapter(),
		HomebrewCask: adapters.NewHomebrewCaskAdapter(),
		HomebrewTap:  adapters.NewHomebrewTapAdapter(),
		Npm:          adapters.NewNpmAdapter(),
		Gem:          adapters.NewGemAdapter(),
		Defaults:     adapters.NewDefaultsAdapter(),
		Systemd:      adapters.NewSystemdAdapter(),
		Ufw:          adapters.NewUfwAdapter(),
		Hashes:       adapters.NewHashAdapter(),
		HTTP:         adapters.NewHTTPAdapter(),
		DNS:          dns,
		Ping:         adapters.NewPingAdapter(),
		Net:          adapters.NewNetAdapter(cfg.ExecConfig()),
		FS:           adapters.NewFSAdapter(),
		Passwd:       adapters.NewPasswdAdapter(),
		Rewrites:     rewrites,
	}
}
