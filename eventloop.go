// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import "time"

// EventLoop is the single-threaded execution context that owns a channel
// and its [Pipeline].
//
// Every pipeline mutation and every event dispatch for a given channel
// runs on exactly one EventLoop, which is what lets handlers assume they
// are never entered concurrently with themselves or with any other
// handler on the same pipeline.
type EventLoop interface {
	// InLoop reports whether the calling goroutine is currently executing
	// on this loop.
	InLoop() bool

	// Execute enqueues task to run on the loop. Safe to call from any
	// goroutine, including from the loop itself, in which case task runs
	// after the current task returns.
	Execute(task func())

	// Schedule enqueues task to run on the loop no sooner than delay from
	// now. The returned function cancels the task if it has not yet run,
	// reporting whether the cancellation took effect.
	Schedule(delay time.Duration, task func()) (cancel func() bool)
}
