// SPDX-License-Identifier: GPL-3.0-or-later

package embedded

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbmk-project/netpipe"
)

func TestIdleTimeoutHandlerClosesChannelOnRealLoop(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	var evt bool
	c.Loop().Execute(func() {
		c.Pipeline().AddLast(&netpipe.IdleTimeoutHandler{Timeout: time.Millisecond}, "idle")
		c.Pipeline().AddLast(&observer{onEvent: func() { evt = true }}, "observer")
	})
	c.Loop().Run()

	assert.True(t, evt)
	assert.False(t, c.IsActive())
}

type observer struct {
	netpipe.HandlerAdapter
	onEvent func()
}

func (h *observer) UserEventTriggered(ctx *netpipe.HandlerContext, e any) {
	if _, ok := e.(netpipe.IdleTimeoutEvent); ok {
		h.onEvent()
	}
	ctx.FireUserEventTriggered(e)
}

func TestIdleTimeoutHandlerRemovalCancelsPendingTimer(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	// The embedded Loop has no real wall clock: Schedule enqueues its task
	// immediately, and that task's own cancel guard is what actually stops
	// it from firing. To exercise that guard rather than just racing the
	// FIFO queue, add and remove within the same tick, synchronously,
	// before the loop ever gets a chance to run the scheduled task.
	var evt bool
	var removeFuture *netpipe.Future[netpipe.Unit]
	c.Loop().Execute(func() {
		c.Pipeline().AddLast(&netpipe.IdleTimeoutHandler{Timeout: time.Hour}, "idle")
		c.Pipeline().AddLast(&observer{onEvent: func() { evt = true }}, "observer")
		removeFuture = c.Pipeline().RemoveByName("idle")
	})
	c.Loop().Run()

	require.NotNil(t, removeFuture)
	require.NoError(t, removeFuture.Wait().Err)
	assert.False(t, evt, "removing the handler must cancel its pending timer before it fires")
}
