//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: spec.md §4.3 "TCP/UDP probe (built-in): keyed by request;
// TCP -> connect success means open; UDP -> bind/send/recv within a
// 2-second timeout means responsive."
// Grounded on: _examples/bassosimone-nop/connect.go (Dialer abstraction,
// structured logging around a dial attempt using safeconn).
//

package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bassosimone/safeconn"

	"github.com/bassosimone/specsheet/exec"
)

// PortRequest identifies a single TCP or UDP port probe.
type PortRequest struct {
	Protocol string // "tcp" or "udp"
	Host     string
	Port     int
}

func (r PortRequest) address() string {
	return net.JoinHostPort(r.Host, fmt.Sprintf("%d", r.Port))
}

func (r PortRequest) cacheKey() string {
	return r.Protocol + "\x00" + r.address()
}

// Dialer abstracts the [*net.Dialer] behavior, grounded on the
// teacher's Dialer interface.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NetAdapter probes TCP/UDP port reachability directly, without
// spawning an external process, one cell per distinct [PortRequest].
type NetAdapter struct {
	Dialer        Dialer
	ErrClassifier exec.ErrClassifier
	Logger        exec.SLogger
	TimeNow       func() time.Time

	mu    sync.Mutex
	cells map[string]*exec.Once[bool]
}

// NewNetAdapter returns a [*NetAdapter] wired from cfg's defaults.
func NewNetAdapter(cfg *exec.Config) *NetAdapter {
	if cfg == nil {
		cfg = exec.NewConfig()
	}
	return &NetAdapter{
		Dialer:        &net.Dialer{},
		ErrClassifier: cfg.ErrClassifier,
		Logger:        cfg.Logger,
		TimeNow:       cfg.TimeNow,
		cells:         make(map[string]*exec.Once[bool]),
	}
}

// Prime installs req's cell, if not already primed.
func (a *NetAdapter) Prime(req PortRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := req.cacheKey()
	if _, ok := a.cells[key]; ok {
		return
	}
	a.cells[key] = exec.NewOnce[bool]()
}

// Responds dials req directly (TCP connect, or UDP write+read within a
// 2-second deadline) and reports whether the port responded, at most
// once per distinct request.
func (a *NetAdapter) Responds(ctx context.Context, req PortRequest) (bool, error) {
	a.Prime(req)
	a.mu.Lock()
	cell := a.cells[req.cacheKey()]
	a.mu.Unlock()

	return cell.Get(func() (bool, error) {
		t0 := a.TimeNow()
		dialCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		conn, err := a.Dialer.DialContext(dialCtx, req.Protocol, req.address())
		a.logDial(req, conn, err, t0)
		if err != nil {
			return false, nil
		}
		defer conn.Close()

		if req.Protocol == "udp" {
			return a.probeUDP(conn)
		}
		return true, nil
	})
}

func (a *NetAdapter) probeUDP(conn net.Conn) (bool, error) {
	conn.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Write([]byte{}); err != nil {
		return false, nil
	}
	buf := make([]byte, 1)
	_, err := conn.Read(buf)
	return err == nil, nil
}

func (a *NetAdapter) logDial(req PortRequest, conn net.Conn, err error, t0 time.Time) {
	a.Logger.Info("netProbe",
		slog.String("protocol", req.Protocol),
		slog.String("address", req.address()),
		slog.String("localAddr", safeconn.LocalAddr(conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(conn)),
		slog.Time("t0", t0),
		slog.Time("t", a.TimeNow()),
		slog.String("errClass", a.ErrClassifier.Classify(err)),
	)
}

// RunNet is the capability interface the tcp and udp checks depend on.
type RunNet interface {
	Prime(req PortRequest)
	Responds(ctx context.Context, req PortRequest) (bool, error)
}

// FuncRunNet stubs [RunNet] for tests.
type FuncRunNet struct {
	PrimeFunc    func(PortRequest)
	RespondsFunc func(context.Context, PortRequest) (bool, error)
}

// Prime implements [RunNet].
func (f FuncRunNet) Prime(req PortRequest) {
	if f.PrimeFunc != nil {
		f.PrimeFunc(req)
	}
}

// Responds implements [RunNet].
func (f FuncRunNet) Responds(ctx context.Context, req PortRequest) (bool, error) {
	return f.RespondsFunc(ctx, req)
}
