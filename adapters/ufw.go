//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "Firewall rules: single shared invocation
// listing rules; parsed by regex into {ports, protocol, interface, action, ipv6-flag}."
// Grounded on: _examples/original_source/spec_checks/src/local/ufw.rs
//

package adapters

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// UfwRule is one parsed line of `ufw status verbose` output.
type UfwRule struct {
	PortLow  int
	PortHigh int
	Protocol string
	Action   string
	Allow    string
	IPv6     bool
}

// ufwRuleLine matches lines like:
//
//	443/tcp                    ALLOW       Anywhere
//	443/tcp (v6)               ALLOW       Anywhere (v6)
//	3000:3010/udp              ALLOW       Anywhere
var ufwRuleLine = regexp.MustCompile(`^(\d+)(?::(\d+))?/(tcp|udp)\s*(\(v6\))?\s+(ALLOW|DENY|REJECT|LIMIT)\s+(.+?)\s*$`)

// UfwAdapter runs `ufw status verbose` once and parses every rule line.
type UfwAdapter struct {
	mu   sync.Mutex
	cell *exec.Cell[[]UfwRule]
}

// NewUfwAdapter returns an empty [*UfwAdapter].
func NewUfwAdapter() *UfwAdapter {
	return &UfwAdapter{cell: exec.NewCell[[]UfwRule]()}
}

// Prime installs the shared `ufw status verbose` invocation.
func (a *UfwAdapter) Prime() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cell.Primed(exec.Invocation{Shell: "ufw status verbose"})
}

func parseUfwRule(line string) (UfwRule, bool) {
	m := ufwRuleLine.FindStringSubmatch(line)
	if m == nil {
		return UfwRule{}, false
	}
	low, _ := strconv.Atoi(m[1])
	high := low
	if m[2] != "" {
		high, _ = strconv.Atoi(m[2])
	}
	allow := strings.TrimSuffix(strings.TrimSpace(m[6]), "(v6)")
	return UfwRule{
		PortLow:  low,
		PortHigh: high,
		Protocol: m[3],
		IPv6:     m[4] != "" || strings.Contains(m[6], "(v6)"),
		Action:   m[5],
		Allow:    strings.TrimSpace(allow),
	}, true
}

// Rules runs (or reuses) the shared listing and returns every parsed rule.
func (a *UfwAdapter) Rules(ctx context.Context, ex *exec.Executor) ([]UfwRule, error) {
	a.Prime()
	return a.cell.Run(ctx, ex, func(raw *exec.RanCommand) ([]UfwRule, error) {
		var rules []UfwRule
		for _, line := range raw.StdoutText() {
			if rule, ok := parseUfwRule(line); ok {
				rules = append(rules, rule)
			}
		}
		return rules, nil
	})
}

// FindRule returns the first rule matching port/protocol/ipv6, if any.
func (a *UfwAdapter) FindRule(ctx context.Context, ex *exec.Executor, port int, protocol string, ipv6 bool) (UfwRule, bool, error) {
	rules, err := a.Rules(ctx, ex)
	if err != nil {
		return UfwRule{}, false, err
	}
	for _, r := range rules {
		if r.Protocol == protocol && r.IPv6 == ipv6 && port >= r.PortLow && port <= r.PortHigh {
			return r, true, nil
		}
	}
	return UfwRule{}, false, nil
}

// RunUfw is the capability interface the ufw check depends on.
type RunUfw interface {
	Prime()
	FindRule(ctx context.Context, ex *exec.Executor, port int, protocol string, ipv6 bool) (UfwRule, bool, error)
}

// FuncRunUfw stubs [RunUfw] for tests.
type FuncRunUfw struct {
	PrimeFunc    func()
	FindRuleFunc func(context.Context, *exec.Executor, int, string, bool) (UfwRule, bool, error)
}

// Prime implements [RunUfw].
func (f FuncRunUfw) Prime() {
	if f.PrimeFunc != nil {
		f.PrimeFunc()
	}
}

// FindRule implements [RunUfw].
func (f FuncRunUfw) FindRule(ctx context.Context, ex *exec.Executor, port int, protocol string, ipv6 bool) (UfwRule, bool, error) {
	return f.FindRuleFunc(ctx, ex, port, protocol, ipv6)
}
