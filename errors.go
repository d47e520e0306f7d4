// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import "errors"

// Error kinds returned by pipeline mutations and dispatch. Match with
// [errors.Is].
var (
	// ErrIOOnClosedChannel is returned when a pipeline mutation is
	// attempted on a channel that has already transitioned through closed.
	ErrIOOnClosedChannel = errors.New("netpipe: io operation on closed channel")

	// ErrAlreadyClosed is returned by the embedded driver's Finish when
	// the channel has already been finished.
	ErrAlreadyClosed = errors.New("netpipe: already closed")

	// ErrNotFound is returned by lookups and by add/remove operations
	// that reference a handler no longer (or never) in the pipeline.
	ErrNotFound = errors.New("netpipe: not found")

	// ErrDuplicateName is returned when add is called with an explicit
	// name that duplicates an existing non-sentinel name, or with one of
	// the reserved sentinel names.
	ErrDuplicateName = errors.New("netpipe: duplicate handler name")

	// ErrDuplicateInstance is returned when the same handler instance is
	// added twice to one pipeline and the handler does not declare itself
	// [Shareable].
	ErrDuplicateInstance = errors.New("netpipe: duplicate handler instance")

	// ErrUnremovableHandler is returned when user code requests removal
	// of a handler that does not declare the [Removable] capability.
	ErrUnremovableHandler = errors.New("netpipe: handler is not removable")

	// ErrWrongType is used by [ExpectType] when a handler's declared
	// message type does not match the value actually flowing through the
	// pipeline at that point.
	ErrWrongType = errors.New("netpipe: wrong message type")
)

// programmerError panics with msg. It marks invariant violations that are
// fatal by design: mismatched removal tokens, double fulfilment of
// a [Future], a dispatch walk that runs off the end of the pipeline, and similar
// conditions that indicate a bug in the caller rather than a recoverable
// runtime condition.
func programmerError(msg string) {
	panic("netpipe: programmer error: " + msg)
}
