//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "HTTP client: keyed by complete HttpRequest
// (url + ordered headers); output interpreted into status line + headers
// (case-insensitive) + optional body."
// Grounded on: _examples/original_source/spec_checks/src/network/http.rs
//

package adapters

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bassosimone/specsheet/exec"
)

// HTTPRequest is the complete input to an HTTP adapter query: the
// request URL plus an ordered set of extra headers.
type HTTPRequest struct {
	URL     string
	Headers map[string]string
}

func (r HTTPRequest) cacheKey() string {
	var b strings.Builder
	b.WriteString(r.URL)
	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte('\x00')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.Headers[k])
	}
	return b.String()
}

// HTTPResponse is the interpreted response view: status code, response
// headers (case-insensitive lookup via [http.Header]), and raw body.
type HTTPResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// HTTPAdapter issues HTTP requests by shelling out to curl, writing
// the response headers and then the body to stdout so a single
// invocation yields both, one cell per distinct [HTTPRequest].
type HTTPAdapter struct {
	mu    sync.Mutex
	cells map[string]*exec.Cell[HTTPResponse]
}

// NewHTTPAdapter returns an empty [*HTTPAdapter].
func NewHTTPAdapter() *HTTPAdapter {
	return &HTTPAdapter{cells: make(map[string]*exec.Cell[HTTPResponse])}
}

func curlInvocation(req HTTPRequest) exec.Invocation {
	var b strings.Builder
	b.WriteString("curl -sS -D - -o - ")
	keys := make([]string, 0, len(req.Headers))
	for k := range req.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("-H ")
		b.WriteString(shellQuote(k + ": " + req.Headers[k]))
		b.WriteString(" ")
	}
	b.WriteString(shellQuote(req.URL))
	return exec.Invocation{Shell: b.String()}
}

// Prime installs req's cell, if not already primed.
func (a *HTTPAdapter) Prime(req HTTPRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := req.cacheKey()
	if _, ok := a.cells[key]; ok {
		return
	}
	cell := exec.NewCell[HTTPResponse]()
	cell.Primed(curlInvocation(req))
	a.cells[key] = cell
}

// Query runs (or reuses) req's cell, returning the interpreted response.
func (a *HTTPAdapter) Query(ctx context.Context, ex *exec.Executor, req HTTPRequest) (HTTPResponse, error) {
	a.Prime(req)
	a.mu.Lock()
	cell := a.cells[req.cacheKey()]
	a.mu.Unlock()
	return cell.Run(ctx, ex, func(raw *exec.RanCommand) (HTTPResponse, error) {
		return parseCurlOutput(raw)
	})
}

func parseCurlOutput(raw *exec.RanCommand) (HTTPResponse, error) {
	if !raw.ExitReason.Is(0) {
		return HTTPResponse{}, exec.NewStatusMismatchError(raw.ExitReason)
	}
	lines := raw.StdoutText()
	resp := HTTPResponse{Headers: make(http.Header)}
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "HTTP/") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if code, err := strconv.Atoi(fields[1]); err == nil {
					resp.Status = code
					resp.Headers = make(http.Header)
				}
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			i++
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if ok {
			resp.Headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}
	if i < len(lines) {
		resp.Body = []byte(strings.Join(lines[i:], "\n"))
	}
	return resp, nil
}

// RunHTTP is the capability interface the http check depends on.
type RunHTTP interface {
	Prime(req HTTPRequest)
	Query(ctx context.Context, ex *exec.Executor, req HTTPRequest) (HTTPResponse, error)
}

// FuncRunHTTP stubs [RunHTTP] for tests.
type FuncRunHTTP struct {
	PrimeFunc func(HTTPRequest)
	QueryFunc func(context.Context, *exec.Executor, HTTPRequest) (HTTPResponse, error)
}

// Prime implements [RunHTTP].
func (f FuncRunHTTP) Prime(req HTTPRequest) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(req)
	}
}

// Query implements [RunHTTP].
func (f FuncRunHTTP) Query(ctx context.Context, ex *exec.Executor, req HTTPRequest) (HTTPResponse, error) {
	return f.QueryFunc(ctx, ex, req)
}
