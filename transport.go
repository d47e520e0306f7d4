// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

// Transport is the boundary a [Pipeline]'s head sentinel forwards outbound
// operations to, and the source of the inbound events the head injects
// into the pipeline.
//
// This package ships one Transport implementation, in netpipe/embedded,
// backed by in-memory queues for testing and illustration. A real socket-
// or datagram-backed transport is outside this package's scope.
type Transport interface {
	// Register completes once the channel has been registered with its
	// event loop.
	Register() *Future[Unit]

	// Bind completes once the channel is listening/bound at addr.
	Bind(addr string) *Future[Unit]

	// Connect completes once the channel is connected to addr.
	Connect(addr string) *Future[Unit]

	// Write enqueues msg for transmission. It does not by itself force
	// the data onto the wire; see Flush.
	Write(msg any) *Future[Unit]

	// Flush forces any queued writes out.
	Flush() *Future[Unit]

	// ReadRequest signals the transport to resume producing inbound
	// reads, which arrive as calls into the owning [Pipeline]'s
	// FireChannelRead.
	ReadRequest() *Future[Unit]

	// Close tears the transport down.
	Close() *Future[Unit]

	// LocalAddress returns the transport's local address, or "" if none.
	LocalAddress() string

	// RemoteAddress returns the transport's remote address, or "" if
	// none.
	RemoteAddress() string
}
