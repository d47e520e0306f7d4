// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/bassosimone/nop connect.go and observeconn.go
//

package embedded

import (
	"log/slog"
	"sync"

	"github.com/rbmk-project/netpipe"
)

// transport is the in-memory [netpipe.Transport] backing a [*Channel]. It
// keeps two plain queues (no real socket) and logs each operation as a
// Start/Done pair.
type transport struct {
	channel *Channel
	cfg     *netpipe.Config

	mu           sync.Mutex
	localAddr    string
	remoteAddr   string
	outboundQueue []any
}

func newTransport(channel *Channel, cfg *netpipe.Config) *transport {
	return &transport{channel: channel, cfg: cfg, localAddr: "embedded:local", remoteAddr: "embedded:remote"}
}

var _ netpipe.Transport = (*transport)(nil)

func (t *transport) unit(op string, fn func() error) *netpipe.Future[netpipe.Unit] {
	promise := netpipe.NewPromise[netpipe.Unit](t.channel.loop)
	t0 := t.cfg.TimeNow()
	t.cfg.Logger.Debug(op+"Start", slog.Time("t", t0))
	err := fn()
	t.cfg.Logger.Debug(
		op+"Done",
		slog.Any("err", err),
		slog.String("errClass", t.cfg.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", t.cfg.TimeNow()),
	)
	if err != nil {
		promise.Fail(err)
	} else {
		promise.Succeed(netpipe.Unit{})
	}
	return promise.Future()
}

func (t *transport) Register() *netpipe.Future[netpipe.Unit] {
	return t.unit("register", func() error {
		t.channel.mu.Lock()
		t.channel.registered = true
		t.channel.mu.Unlock()
		return nil
	})
}

func (t *transport) Bind(addr string) *netpipe.Future[netpipe.Unit] {
	return t.unit("bind", func() error {
		t.mu.Lock()
		t.localAddr = addr
		t.mu.Unlock()
		t.channel.mu.Lock()
		t.channel.active = true
		t.channel.mu.Unlock()
		return nil
	})
}

func (t *transport) Connect(addr string) *netpipe.Future[netpipe.Unit] {
	return t.unit("connect", func() error {
		t.mu.Lock()
		t.remoteAddr = addr
		t.mu.Unlock()
		t.channel.mu.Lock()
		t.channel.active = true
		t.channel.mu.Unlock()
		return nil
	})
}

func (t *transport) Write(msg any) *netpipe.Future[netpipe.Unit] {
	return t.unit("write", func() error {
		if t.channel.IsClosed() {
			return netpipe.ErrIOOnClosedChannel
		}
		t.mu.Lock()
		t.outboundQueue = append(t.outboundQueue, msg)
		t.mu.Unlock()
		return nil
	})
}

func (t *transport) Flush() *netpipe.Future[netpipe.Unit] {
	return t.unit("flush", func() error { return nil })
}

func (t *transport) ReadRequest() *netpipe.Future[netpipe.Unit] {
	return t.unit("readRequest", func() error { return nil })
}

func (t *transport) Close() *netpipe.Future[netpipe.Unit] {
	return t.unit("close", func() error {
		t.channel.mu.Lock()
		t.channel.active = false
		t.channel.mu.Unlock()
		return nil
	})
}

func (t *transport) LocalAddress() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.localAddr
}

func (t *transport) RemoteAddress() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remoteAddr
}

func (t *transport) readOutbound() (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.outboundQueue) == 0 {
		return nil, false
	}
	msg := t.outboundQueue[0]
	t.outboundQueue = t.outboundQueue[1:]
	return msg, true
}

func (t *transport) readOutboundAll() []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	all := t.outboundQueue
	t.outboundQueue = nil
	return all
}
