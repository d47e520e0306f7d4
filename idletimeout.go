// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/bassosimone/nop cancelwatch.go
//

package netpipe

import "time"

// IdleTimeoutEvent is fired as a user inbound event when an
// [*IdleTimeoutHandler]'s timer elapses, immediately before it closes the
// channel.
type IdleTimeoutEvent struct{}

// IdleTimeoutHandler closes its channel if no inbound read arrives within
// Timeout of the last one (or of being added). It is a Removable and
// FormalRemover handler: removal cancels its pending scheduled task
// before leaving so it never fires after detaching.
type IdleTimeoutHandler struct {
	HandlerAdapter

	// Timeout is the idle duration after which the channel is closed.
	Timeout time.Duration

	cancel func() bool
}

var (
	_ InboundReader  = (*IdleTimeoutHandler)(nil)
	_ LifecycleAdder = (*IdleTimeoutHandler)(nil)
	_ Removable      = (*IdleTimeoutHandler)(nil)
	_ FormalRemover  = (*IdleTimeoutHandler)(nil)
)

// HandlerAdded arms the idle timer.
func (h *IdleTimeoutHandler) HandlerAdded(ctx *HandlerContext) {
	h.arm(ctx)
}

// ChannelRead re-arms the idle timer on every read, then forwards it.
func (h *IdleTimeoutHandler) ChannelRead(ctx *HandlerContext, msg any) {
	h.arm(ctx)
	ctx.FireChannelRead(msg)
}

func (h *IdleTimeoutHandler) arm(ctx *HandlerContext) {
	if h.cancel != nil {
		h.cancel()
	}
	h.cancel = ctx.EventLoop().Schedule(h.Timeout, func() {
		ctx.FireUserEventTriggered(IdleTimeoutEvent{})
		ctx.Close(nil)
	})
}

// IsRemovable implements [Removable]; an idle-timeout handler always
// accepts removal.
func (h *IdleTimeoutHandler) IsRemovable() bool { return true }

// FormalRemove cancels the pending timer, if any, then leaves the
// pipeline immediately.
func (h *IdleTimeoutHandler) FormalRemove(ctx *HandlerContext, token *RemovalToken) {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	ctx.LeavePipeline(token)
}
