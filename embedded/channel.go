// SPDX-License-Identifier: GPL-3.0-or-later

package embedded

import (
	"sync"

	"github.com/rbmk-project/netpipe"
)

// Channel is the embedded, in-memory driver for a [netpipe.Pipeline]. It
// implements [netpipe.Channel] and [netpipe.InboundRecorder] itself, and
// owns the [*Loop] and in-memory [netpipe.Transport] the pipeline
// dispatches through.
type Channel struct {
	loop      *Loop
	pipeline  *netpipe.Pipeline
	transport *transport

	mu         sync.Mutex
	registered bool
	active     bool
	closed     bool

	inboundQueue []any
}

// NewChannel creates an idle, unregistered [*Channel] with a fresh
// pipeline. Pass nil for cfg to use [netpipe.NewConfig]'s defaults.
func NewChannel(cfg *netpipe.Config) *Channel {
	if cfg == nil {
		cfg = netpipe.NewConfig()
	}
	c := &Channel{loop: NewLoop()}
	c.transport = newTransport(c, cfg)
	c.pipeline = netpipe.NewPipeline(c, c.transport, cfg)
	return c
}

var (
	_ netpipe.Channel         = (*Channel)(nil)
	_ netpipe.InboundRecorder = (*Channel)(nil)
)

// Pipeline returns the channel's pipeline.
func (c *Channel) Pipeline() *netpipe.Pipeline { return c.pipeline }

// Loop returns the channel's event loop.
func (c *Channel) Loop() *Loop { return c.loop }

// IsRegistered implements [netpipe.Channel].
func (c *Channel) IsRegistered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

// IsActive implements [netpipe.Channel].
func (c *Channel) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsClosed implements [netpipe.Channel].
func (c *Channel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// EventLoop implements [netpipe.Channel].
func (c *Channel) EventLoop() netpipe.EventLoop { return c.loop }

// RecordInbound implements [netpipe.InboundRecorder], capturing every
// inbound message that reaches the tail sentinel unhandled.
func (c *Channel) RecordInbound(msg any) {
	c.mu.Lock()
	c.inboundQueue = append(c.inboundQueue, msg)
	c.mu.Unlock()
}

// Activate registers the channel, fires channel_active through the
// pipeline, and drains the loop. Most tests that don't care about the
// bind/connect handshake itself call this once before exercising a
// pipeline.
func (c *Channel) Activate() {
	c.mu.Lock()
	c.registered = true
	c.active = true
	c.mu.Unlock()
	c.loop.Execute(func() {
		c.pipeline.FireChannelRegistered()
		c.pipeline.FireChannelActive()
	})
	c.loop.Run()
}

// WriteInbound injects msg as an inbound read followed by read-complete,
// then drains the loop.
func (c *Channel) WriteInbound(msg any) {
	c.loop.Execute(func() {
		c.pipeline.FireChannelRead(msg)
		c.pipeline.FireChannelReadComplete()
	})
	c.loop.Run()
}

// WriteOutbound writes and flushes msg from outside any specific handler
// (equivalent to the tail sentinel initiating it), then drains the loop.
func (c *Channel) WriteOutbound(msg any) *netpipe.Future[netpipe.Unit] {
	var f *netpipe.Future[netpipe.Unit]
	c.loop.Execute(func() { f = c.pipeline.WriteAndFlush(msg, nil) })
	c.loop.Run()
	return f
}

// ReadInbound pops the oldest recorded inbound message, if any.
func (c *Channel) ReadInbound() (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inboundQueue) == 0 {
		return nil, false
	}
	msg := c.inboundQueue[0]
	c.inboundQueue = c.inboundQueue[1:]
	return msg, true
}

// ReadInboundAll drains and returns every recorded inbound message.
func (c *Channel) ReadInboundAll() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.inboundQueue
	c.inboundQueue = nil
	return all
}

// ReadOutbound pops the oldest message the pipeline handed the transport,
// if any.
func (c *Channel) ReadOutbound() (any, bool) {
	return c.transport.readOutbound()
}

// ReadOutboundAll drains and returns every message the pipeline handed the
// transport.
func (c *Channel) ReadOutboundAll() []any {
	return c.transport.readOutboundAll()
}

// Finish tears the channel down: fires channel_inactive, forcibly
// completes any outstanding handler removal, and drains the loop.
// Finishing an already-closed channel returns [netpipe.ErrAlreadyClosed].
func (c *Channel) Finish() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return netpipe.ErrAlreadyClosed
	}
	c.closed = true
	c.active = false
	c.mu.Unlock()

	c.loop.Execute(func() {
		c.pipeline.FireChannelInactive()
		c.pipeline.Teardown()
	})
	c.loop.Run()
	return nil
}
