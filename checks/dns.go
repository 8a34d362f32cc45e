//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/network/dns.rs
//

package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/exec"
)

var dnsStates = specsheet.OneOf{"present", "absent"}

// DnsCheck asserts that a DNS lookup does or does not yield a given
// value.
type DnsCheck struct {
	request adapters.DNSRequest
	missing bool
	value   string
}

// ReadDnsCheck parses a "[[dns]]" table entry.
func ReadDnsCheck(v specsheet.Value) (*DnsCheck, error) {
	if err := v.EnsureOnlyKeys([]string{"nameserver", "domain", "type", "state", "value"}); err != nil {
		return nil, err
	}

	var nameserver string
	if nsVal, ok := v.Get("nameserver"); ok {
		ns, err := nsVal.StringOrError("nameserver")
		if err != nil {
			return nil, err
		}
		nameserver = ns
	}

	domainVal, err := v.GetOrReadError("domain")
	if err != nil {
		return nil, err
	}
	domain, err := domainVal.StringOrError("domain")
	if err != nil {
		return nil, err
	}
	if domain == "" {
		return nil, specsheet.NewInvalidValue("domain", domainVal, "it must not be empty")
	}

	typeVal, err := v.GetOrReadError("type")
	if err != nil {
		return nil, err
	}
	rtype, err := typeVal.StringOrError2("type", "it must be a string such as 'A', 'MX', 'TXT'...")
	if err != nil {
		return nil, err
	}
	rtype = strings.ToUpper(rtype)
	if !adapters.ValidateRecordType(rtype) {
		return nil, specsheet.NewInvalidValue("type", typeVal, "it must be a string such as 'A', 'MX', 'TXT'...")
	}

	c := &DnsCheck{request: adapters.DNSRequest{Nameserver: nameserver, Domain: domain, RecordType: rtype}}

	valueVal, hasValue := v.Get("value")
	var value string
	if hasValue {
		value, err = valueVal.StringOrError("value")
		if err != nil {
			return nil, err
		}
	}

	stateVal, hasState := v.Get("state")
	if !hasState {
		if !hasValue {
			return nil, specsheet.NewMissingParameter("value")
		}
		c.value = value
		return c, nil
	}

	state, err := stateVal.StringOrError2("state", dnsStates)
	if err != nil {
		return nil, err
	}
	switch state {
	case "present":
		if !hasValue {
			return nil, specsheet.NewMissingParameter("value")
		}
		c.value = value
	case "absent":
		if hasValue {
			return nil, specsheet.NewConflict("value")
		}
		c.missing = true
	default:
		return nil, specsheet.NewInvalidValue("state", stateVal, dnsStates)
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *DnsCheck) Type() string { return "dns" }

// String implements [fmt.Stringer].
func (c *DnsCheck) String() string {
	s := fmt.Sprintf("DNS '%s' record for '%s'", c.request.RecordType, c.request.Domain)
	if c.missing {
		s += " is missing"
	} else {
		s += fmt.Sprintf(" exists with value '%s'", c.value)
	}
	if c.request.Nameserver != "" {
		s += fmt.Sprintf(" (according to %s)", c.request.Nameserver)
	}
	return s
}

// Load implements [specsheet.RunnableCheck].
func (c *DnsCheck) Load(env *specsheet.Environment) error {
	env.DNS.Prime(c.request)
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *DnsCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	answers, err := env.DNS.Resolve(ctx, ex, c.request)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	found := false
	for _, a := range answers {
		if a == c.value {
			found = true
			break
		}
	}

	switch {
	case c.missing && len(answers) > 0:
		return []specsheet.Result{specsheet.FailedResult(dnsValuePresent{answers})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(dnsValueMissing{})}
	case len(answers) == 0:
		return []specsheet.Result{specsheet.FailedResult(dnsValueMissing{})}
	case found:
		return []specsheet.Result{specsheet.PassedResult(dnsValueMatches{})}
	default:
		return []specsheet.Result{specsheet.FailedResult(dnsValueMismatch{answers})}
	}
}

type dnsValueMatches struct{}

func (dnsValueMatches) String() string { return "value matches" }

type dnsValueMissing struct{}

func (dnsValueMissing) String() string { return "no value present" }

type dnsValuePresent struct{ got []string }

func (f dnsValuePresent) String() string {
	return fmt.Sprintf("value is present: %s", strings.Join(f.got, ", "))
}

type dnsValueMismatch struct{ got []string }

func (f dnsValueMismatch) String() string {
	return fmt.Sprintf("values do not match; got %s", strings.Join(f.got, ", "))
}
