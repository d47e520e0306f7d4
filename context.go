// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

// contextState tracks a [HandlerContext] through its lifecycle.
type contextState int32

const (
	stateInit contextState = iota
	stateAdded
	stateRemovalPending
	stateRemoved
)

// RemovalToken is the one-shot capability minted by a removal request
// against a [Removable] handler. The handler that receives it via
// [FormalRemover.FormalRemove] must pass it back to
// [HandlerContext.LeavePipeline] to complete its own removal. Presenting
// any other context's token is a programmer error; presenting a token
// that was already redeemed, or that channel teardown made inert, does
// nothing.
type RemovalToken struct {
	ctx     *HandlerContext
	inert   bool
	promise *Promise[Unit]
}

// HandlerContext is one node of a [Pipeline]'s doubly-linked handler
// chain. It pairs a [Handler] with pipeline-navigation state and
// is the object through which a handler observes and drives dispatch:
// inbound events are forwarded with the Fire* methods, outbound operations
// are initiated with Write, Bind, Connect, and friends.
type HandlerContext struct {
	pipeline *Pipeline
	name     string
	handler  Handler
	prev     *HandlerContext
	next     *HandlerContext
	state    contextState

	removalToken *RemovalToken
}

// Name returns the context's name, unique within its pipeline.
func (c *HandlerContext) Name() string { return c.name }

// Handler returns the handler this context wraps.
func (c *HandlerContext) Handler() Handler { return c.handler }

// Pipeline returns the owning pipeline.
func (c *HandlerContext) Pipeline() *Pipeline { return c.pipeline }

// Channel returns the owning pipeline's channel.
func (c *HandlerContext) Channel() Channel { return c.pipeline.channel }

// EventLoop returns the loop that owns this context's pipeline.
func (c *HandlerContext) EventLoop() EventLoop { return c.pipeline.loop }

// Allocator returns the pipeline's configured [BufferAllocator].
func (c *HandlerContext) Allocator() BufferAllocator { return c.pipeline.allocator }

// IsRemoved reports whether this context has completed removal from its
// pipeline. A removed context's Handler returns nil.
func (c *HandlerContext) IsRemoved() bool { return c.state == stateRemoved }

// ---- inbound forwarders -----------------------------------------------
//
// Each Fire* method walks forward from c.next, excluding c itself from the
// search, until it finds a context whose handler implements the matching
// capability, and invokes it. Every walk is guaranteed to terminate at (or
// before) the tail sentinel, which implements every inbound capability.

func findInboundNext[T any](start *HandlerContext) (*HandlerContext, T) {
	for cur := start; cur != nil; cur = cur.next {
		if cur.state == stateRemoved {
			continue
		}
		if v, ok := cur.handler.(T); ok {
			return cur, v
		}
	}
	var zero T
	programmerError("inbound dispatch walked off the end of the pipeline")
	return nil, zero
}

// FireChannelRead forwards a channel_read event starting after c.
func (c *HandlerContext) FireChannelRead(msg any) {
	ctx, h := findInboundNext[InboundReader](c.next)
	h.ChannelRead(ctx, msg)
}

// FireChannelReadComplete forwards a channel_read_complete event starting
// after c.
func (c *HandlerContext) FireChannelReadComplete() {
	ctx, h := findInboundNext[InboundReadCompleter](c.next)
	h.ChannelReadComplete(ctx)
}

// FireChannelActive forwards a channel_active event starting after c.
func (c *HandlerContext) FireChannelActive() {
	ctx, h := findInboundNext[InboundActivator](c.next)
	h.ChannelActive(ctx)
}

// FireChannelInactive forwards a channel_inactive event starting after c.
func (c *HandlerContext) FireChannelInactive() {
	ctx, h := findInboundNext[InboundDeactivator](c.next)
	h.ChannelInactive(ctx)
}

// FireUserEventTriggered forwards a user_inbound_event starting after c.
func (c *HandlerContext) FireUserEventTriggered(evt any) {
	ctx, h := findInboundNext[InboundUserEventHandler](c.next)
	h.UserEventTriggered(ctx, evt)
}

// FireErrorCaught forwards an error_caught event starting after c.
func (c *HandlerContext) FireErrorCaught(err error) {
	ctx, h := findInboundNext[InboundErrorHandler](c.next)
	h.ErrorCaught(ctx, err)
}

// FireChannelWritabilityChanged forwards a channel_writability_changed
// event starting after c.
func (c *HandlerContext) FireChannelWritabilityChanged() {
	ctx, h := findInboundNext[InboundWritabilityHandler](c.next)
	h.ChannelWritabilityChanged(ctx)
}

// ---- outbound initiators -----------------------------------------------
//
// Each outbound method walks backward from c.prev, excluding c itself,
// until it finds a context whose handler implements the matching
// capability. This holds regardless of which context c is or what kind of
// callback is currently on the stack: a handler that calls Write from
// inside its own ChannelRead still starts the outbound search at its own
// predecessor.

func findOutboundNext[T any](start *HandlerContext) (*HandlerContext, T) {
	for cur := start; cur != nil; cur = cur.prev {
		if cur.state == stateRemoved {
			continue
		}
		if v, ok := cur.handler.(T); ok {
			return cur, v
		}
	}
	var zero T
	programmerError("outbound dispatch walked off the end of the pipeline")
	return nil, zero
}

// effectivePromise returns promise if non-nil, otherwise a fresh promise
// whose failure is funneled through fire_error_caught on c. When c is the
// tail sentinel, which has no successor to fire to, the failure is
// recorded directly as the error [Pipeline.ThrowIfErrorCaught] returns.
func (c *HandlerContext) effectivePromise(promise *Promise[Unit]) *Promise[Unit] {
	if promise != nil {
		return promise
	}
	p := NewPromise[Unit](c.pipeline.loop)
	p.Future().OnComplete(func(r Result[Unit]) {
		if r.Err == nil {
			return
		}
		if c == c.pipeline.tail {
			c.pipeline.lastErr = r.Err
			return
		}
		c.FireErrorCaught(r.Err)
	})
	return p
}

// Bind initiates an outbound bind starting at c.prev.
func (c *HandlerContext) Bind(addr string, promise *Promise[Unit]) *Future[Unit] {
	p := c.effectivePromise(promise)
	ctx, h := findOutboundNext[OutboundBinder](c.prev)
	h.Bind(ctx, addr, p)
	return p.Future()
}

// Connect initiates an outbound connect starting at c.prev.
func (c *HandlerContext) Connect(addr string, promise *Promise[Unit]) *Future[Unit] {
	p := c.effectivePromise(promise)
	ctx, h := findOutboundNext[OutboundConnector](c.prev)
	h.Connect(ctx, addr, p)
	return p.Future()
}

// Write initiates an outbound write starting at c.prev.
func (c *HandlerContext) Write(msg any, promise *Promise[Unit]) *Future[Unit] {
	p := c.effectivePromise(promise)
	ctx, h := findOutboundNext[OutboundWriter](c.prev)
	h.Write(ctx, msg, p)
	return p.Future()
}

// Flush initiates an outbound flush starting at c.prev.
func (c *HandlerContext) Flush() {
	ctx, h := findOutboundNext[OutboundFlusher](c.prev)
	h.Flush(ctx)
}

// WriteAndFlush is Write immediately followed by Flush.
func (c *HandlerContext) WriteAndFlush(msg any, promise *Promise[Unit]) *Future[Unit] {
	f := c.Write(msg, promise)
	c.Flush()
	return f
}

// Read requests that the channel resume producing inbound reads, starting
// at c.prev.
func (c *HandlerContext) Read() {
	ctx, h := findOutboundNext[OutboundReadRequester](c.prev)
	h.Read(ctx)
}

// Close initiates an outbound close starting at c.prev.
func (c *HandlerContext) Close(promise *Promise[Unit]) *Future[Unit] {
	p := c.effectivePromise(promise)
	ctx, h := findOutboundNext[OutboundCloser](c.prev)
	h.Close(ctx, p)
	return p.Future()
}

// TriggerUserOutboundEvent initiates an outbound user event starting at
// c.prev.
func (c *HandlerContext) TriggerUserOutboundEvent(evt any, promise *Promise[Unit]) *Future[Unit] {
	p := c.effectivePromise(promise)
	ctx, h := findOutboundNext[OutboundUserEventTriggerer](c.prev)
	h.TriggerUserEvent(ctx, evt, p)
	return p.Future()
}

// LeavePipeline redeems token, completing the two-phase removal handshake
// started by [FormalRemover.FormalRemove]. token must be the token this
// context itself received; presenting a mismatched token is a programmer
// error. Redeeming a token that was already redeemed, or that channel
// teardown made inert, does nothing.
func (c *HandlerContext) LeavePipeline(token *RemovalToken) {
	if token == nil || token.ctx != c {
		programmerError("LeavePipeline: token does not belong to this context")
	}
	c.pipeline.finishRemoval(c, token)
}
