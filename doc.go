// SPDX-License-Identifier: GPL-3.0-or-later

/*
Package netpipe implements the channel pipeline of an event-driven,
non-blocking network I/O framework.

# Core Abstraction

A [Pipeline] is an ordered, bidirectional chain of [Handler] instances
through which inbound and outbound events flow for a single network
channel. Every byte read from a socket, every write request, and every
lifecycle event (connect, close, error, user event) traverses the
pipeline. The pipeline itself never touches a real socket: it is
bracketed by a synthetic head context that bridges to a [Transport] and
a synthetic tail context that terminates unhandled inbound events.

# Handlers

A [Handler] implements any non-empty subset of the inbound, outbound, and
lifecycle capability interfaces declared in capability.go. Unimplemented
inbound methods default to "forward to next"; unimplemented outbound
methods default to "forward to previous". Embed [HandlerAdapter] to get
these defaults for free and override only the methods a concrete handler
cares about.

# Threading

A pipeline is owned by exactly one [EventLoop]. All structural mutations
(add/remove) happen on that loop, and calls from other goroutines are
submitted to it. Event dispatch runs on whichever goroutine calls a Fire*
or outbound method; it is not submitted to the loop. [Future] is the
only primitive in this package safe to touch from other goroutines.

# Deferred results

Pipeline mutations return a [Future] that is fulfilled, on the owning
loop, after the mutation and any associated lifecycle callback have
completed. See future.go.

# Embedded driver

The github.com/rbmk-project/netpipe/embedded package provides an
in-memory [EventLoop] and [Transport] implementation used to make
pipeline semantics observable in tests without a real socket.

# Observability

Pipeline mutations and lifecycle transitions emit structured log events
via [SLogger] (compatible with [log/slog]). By default, logging is
disabled: set [Config.Logger] to enable it. Errors are classified via
[ErrClassifier]; the default classifier is a no-op. Each mutation and
each channel_active/channel_inactive transition logs a start/done event
pair sharing one span ID from [Config.SpanIDGenerator] (by default
[NewSpanID]); other event dispatches are not logged.

# Design boundaries

This package owns the pipeline data structure and its mutation, dispatch,
and lifecycle semantics only. It does not own real socket I/O, a real
selector/poller, a real byte-buffer allocator, or concrete protocol
codecs — those are external collaborators reached through [Transport]
and through concrete [Handler] implementations built on top of this
package (see the nethttp subpackage for an illustrative composition).
*/
package netpipe
