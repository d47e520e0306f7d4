// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

// Channel is the minimal channel-lifecycle surface a [Pipeline] depends
// on. A concrete channel type (see the netpipe/embedded package)
// implements this to plug into a Pipeline.
type Channel interface {
	// IsRegistered reports whether the channel has been registered with
	// its event loop.
	IsRegistered() bool

	// IsActive reports whether the channel is currently active (bound or
	// connected and not yet closed).
	IsActive() bool

	// IsClosed reports whether the channel has completed teardown. Once
	// true, pipeline mutations fail with [ErrIOOnClosedChannel] (an add
	// relative to a handler that is no longer present fails with
	// [ErrNotFound] first).
	IsClosed() bool

	// EventLoop returns the loop that owns this channel.
	EventLoop() EventLoop
}

// InboundRecorder is implemented by channels that want to observe inbound
// messages that reach the tail unhandled. Without it, unhandled inbound
// reads are discarded silently. The embedded driver implements this to
// make pipeline behavior observable in tests.
type InboundRecorder interface {
	RecordInbound(msg any)
}

// BufferAllocator abstracts byte-buffer allocation for handler contexts.
// A real, pooling allocator is outside this package's scope; this
// interface exists solely so [HandlerContext.Allocator] has something
// concrete to return.
type BufferAllocator interface {
	Allocate(size int) []byte
}

// DefaultBufferAllocator allocates with the builtin make and does no
// pooling.
type DefaultBufferAllocator struct{}

// Allocate implements [BufferAllocator].
func (DefaultBufferAllocator) Allocate(size int) []byte {
	return make([]byte, size)
}
