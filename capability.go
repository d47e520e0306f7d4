// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

// Handler is a user-supplied pipeline participant.
//
// Unlike Netty's single fat ChannelHandler interface, a Handler implements
// any non-empty subset of the capability interfaces declared below. The
// pipeline discovers which capabilities a given handler has through type
// assertions at dispatch time; a handler that implements none of the
// inbound methods for a given event is simply skipped and the event
// continues toward the next context that does implement it.
//
// Handler is an alias for any: it exists purely to make signatures
// self-documenting.
type Handler = any

// InboundReader handles channel_read.
type InboundReader interface {
	ChannelRead(ctx *HandlerContext, msg any)
}

// InboundReadCompleter handles channel_read_complete.
type InboundReadCompleter interface {
	ChannelReadComplete(ctx *HandlerContext)
}

// InboundActivator handles channel_active.
type InboundActivator interface {
	ChannelActive(ctx *HandlerContext)
}

// InboundDeactivator handles channel_inactive.
type InboundDeactivator interface {
	ChannelInactive(ctx *HandlerContext)
}

// InboundUserEventHandler handles user_inbound_event.
type InboundUserEventHandler interface {
	UserEventTriggered(ctx *HandlerContext, evt any)
}

// InboundErrorHandler handles error_caught.
type InboundErrorHandler interface {
	ErrorCaught(ctx *HandlerContext, err error)
}

// InboundWritabilityHandler handles channel_writability_changed.
type InboundWritabilityHandler interface {
	ChannelWritabilityChanged(ctx *HandlerContext)
}

// OutboundRegisterer handles the outbound register operation.
type OutboundRegisterer interface {
	Register(ctx *HandlerContext, promise *Promise[Unit])
}

// OutboundBinder handles the outbound bind operation.
type OutboundBinder interface {
	Bind(ctx *HandlerContext, addr string, promise *Promise[Unit])
}

// OutboundConnector handles the outbound connect operation.
type OutboundConnector interface {
	Connect(ctx *HandlerContext, addr string, promise *Promise[Unit])
}

// OutboundWriter handles the outbound write operation.
type OutboundWriter interface {
	Write(ctx *HandlerContext, msg any, promise *Promise[Unit])
}

// OutboundFlusher handles the outbound flush operation.
type OutboundFlusher interface {
	Flush(ctx *HandlerContext)
}

// OutboundReadRequester handles the outbound read-request operation, the
// signal that the channel should resume producing inbound reads.
type OutboundReadRequester interface {
	Read(ctx *HandlerContext)
}

// OutboundCloser handles the outbound close operation.
type OutboundCloser interface {
	Close(ctx *HandlerContext, promise *Promise[Unit])
}

// OutboundUserEventTriggerer handles trigger_user_outbound_event.
type OutboundUserEventTriggerer interface {
	TriggerUserEvent(ctx *HandlerContext, evt any, promise *Promise[Unit])
}

// LifecycleAdder handles handler_added, fired once a context transitions
// from init to added.
type LifecycleAdder interface {
	HandlerAdded(ctx *HandlerContext)
}

// LifecycleRemover handles handler_removed, fired once a context finishes
// leaving the pipeline, whether by user request or by channel teardown.
type LifecycleRemover interface {
	HandlerRemoved(ctx *HandlerContext)
}

// Removable marks a handler as eligible for the two-phase formal-removal
// handshake. A handler that does not implement Removable can
// only leave the pipeline through channel teardown.
type Removable interface {
	// IsRemovable reports whether this handler instance currently accepts
	// removal requests. Most implementations simply return true
	// unconditionally.
	IsRemovable() bool
}

// FormalRemover receives the removal token minted for a removal request
// against a [Removable] handler. The handler may finish any pending
// outbound work through ctx and must eventually call
// [HandlerContext.LeavePipeline] with token to complete its removal. If a
// handler declares [Removable] but not FormalRemover, removal completes
// immediately.
type FormalRemover interface {
	FormalRemove(ctx *HandlerContext, token *RemovalToken)
}

// Shareable marks a handler instance as safe to add to more than one
// [HandlerContext] (in the same or different pipelines) at once.
//
// By default, adding the same handler instance twice to one pipeline
// fails with [ErrDuplicateInstance], mirroring how most handlers keep
// per-context state in their own fields and would corrupt it if shared.
// Adding one instance to two different pipelines is not checked, and
// instances of zero-size types are never treated as duplicates, since Go
// does not give them distinct addresses.
type Shareable interface {
	IsShareable() bool
}
