//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "DNS client: keyed by Request; 'short' output
// mode; lines are the answer values."
// Grounded on: _examples/original_source/spec_checks/src/network/dns.rs
//
// Uses github.com/miekg/dns to validate the record type before building
// the dig invocation, and as an in-process alternative
// DNS client reachable through the same RunDNS capability interface.
//

package adapters

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/miekg/dns"

	"github.com/bassosimone/specsheet/exec"
)

// DNSRequest identifies a DNS lookup and the cache key for its cell.
type DNSRequest struct {
	Nameserver string // empty means the system default resolver
	Domain     string
	RecordType string
}

func (r DNSRequest) cacheKey() string {
	return r.Nameserver + "\x00" + r.Domain + "\x00" + r.RecordType
}

// ValidateRecordType reports whether rtype is a DNS record type
// miekg/dns recognizes (A, AAAA, CNAME, MX, TXT, NS, …).
func ValidateRecordType(rtype string) bool {
	_, ok := dns.StringToType[strings.ToUpper(rtype)]
	return ok
}

// ValidateDomain reports whether domain is a syntactically valid
// domain name; the trailing dot is optional.
func ValidateDomain(domain string) bool {
	_, ok := dns.IsDomainName(domain)
	return ok
}

// DNSAdapter resolves [DNSRequest]s by shelling out to `dig`, one cell
// per distinct request.
type DNSAdapter struct {
	mu    sync.Mutex
	cells map[string]*exec.Cell[[]string]
}

// NewDNSAdapter returns an empty [*DNSAdapter].
func NewDNSAdapter() *DNSAdapter {
	return &DNSAdapter{cells: make(map[string]*exec.Cell[[]string])}
}

func digInvocation(req DNSRequest) exec.Invocation {
	var b strings.Builder
	b.WriteString("dig +short ")
	if req.Nameserver != "" {
		fmt.Fprintf(&b, "@%s ", req.Nameserver)
	}
	b.WriteString(req.Domain)
	b.WriteString(" ")
	b.WriteString(strings.ToUpper(req.RecordType))
	return exec.Invocation{Shell: b.String()}
}

// Prime installs req's cell, if not already primed.
func (a *DNSAdapter) Prime(req DNSRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := req.cacheKey()
	if _, ok := a.cells[key]; ok {
		return
	}
	cell := exec.NewCell[[]string]()
	cell.Primed(digInvocation(req))
	a.cells[key] = cell
}

// Resolve runs (or reuses) req's cell and returns every answer line.
func (a *DNSAdapter) Resolve(ctx context.Context, ex *exec.Executor, req DNSRequest) ([]string, error) {
	a.Prime(req)
	a.mu.Lock()
	cell := a.cells[req.cacheKey()]
	a.mu.Unlock()
	return cell.Run(ctx, ex, func(raw *exec.RanCommand) ([]string, error) {
		if !raw.ExitReason.Is(0) {
			return nil, exec.NewStatusMismatchError(raw.ExitReason)
		}
		var answers []string
		for _, line := range raw.StdoutText() {
			if strings.TrimSpace(line) != "" {
				answers = append(answers, strings.TrimSpace(line))
			}
		}
		return answers, nil
	})
}

// ResolveInProcess answers req directly via miekg/dns over UDP,
// demonstrating that a command adapter need not always shell out; it
// exposes the same answer-line shape as [DNSAdapter.Resolve]. An empty
// Nameserver is sent to 127.0.0.1:53, not to the system's configured
// resolvers.
func ResolveInProcess(ctx context.Context, req DNSRequest) ([]string, error) {
	rtype, ok := dns.StringToType[strings.ToUpper(req.RecordType)]
	if !ok {
		return nil, fmt.Errorf("adapters: unknown DNS record type %q", req.RecordType)
	}
	nameserver := req.Nameserver
	if nameserver == "" {
		nameserver = "127.0.0.1"
	}
	if !strings.Contains(nameserver, ":") {
		nameserver += ":53"
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(req.Domain), rtype)

	client := new(dns.Client)
	resp, _, err := client.ExchangeContext(ctx, msg, nameserver)
	if err != nil {
		return nil, err
	}

	var answers []string
	for _, rr := range resp.Answer {
		answer := strings.TrimSpace(strings.TrimPrefix(rr.String(), rr.Header().String()))
		if answer != "" {
			answers = append(answers, answer)
		}
	}
	return answers, nil
}

// InProcessDNSAdapter answers [DNSRequest]s via [ResolveInProcess]
// instead of shelling out to `dig`. It has no cell to prime: every
// call to Resolve issues a fresh exchange.
type InProcessDNSAdapter struct{}

// NewInProcessDNSAdapter returns an [*InProcessDNSAdapter].
func NewInProcessDNSAdapter() *InProcessDNSAdapter { return &InProcessDNSAdapter{} }

// Prime implements [RunDNS]; there is nothing to prime.
func (a *InProcessDNSAdapter) Prime(req DNSRequest) {}

// Resolve implements [RunDNS] via [ResolveInProcess].
func (a *InProcessDNSAdapter) Resolve(ctx context.Context, ex *exec.Executor, req DNSRequest) ([]string, error) {
	return ResolveInProcess(ctx, req)
}

// RunDNS is the capability interface the dns check depends on.
type RunDNS interface {
	Prime(req DNSRequest)
	Resolve(ctx context.Context, ex *exec.Executor, req DNSRequest) ([]string, error)
}

// FuncRunDNS stubs [RunDNS] for tests.
type FuncRunDNS struct {
	PrimeFunc   func(DNSRequest)
	ResolveFunc func(context.Context, *exec.Executor, DNSRequest) ([]string, error)
}

// Prime implements [RunDNS].
func (f FuncRunDNS) Prime(req DNSRequest) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(req)
	}
}

// Resolve implements [RunDNS].
func (f FuncRunDNS) Resolve(ctx context.Context, ex *exec.Executor, req DNSRequest) ([]string, error) {
	return f.ResolveFunc(ctx, ex, req)
}
