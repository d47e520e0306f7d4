// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdleTimeoutFiresAndClosesChannel(t *testing.T) {
	p, loop, _ := newTestPipeline()
	var sawEvent bool

	// Both AddLast calls are queued before the loop runs at all, so the
	// task linking "observer" is queued ahead of the (immediately-firing,
	// on the fakeLoop) timeout task the idle handler's own HandlerAdded
	// schedules, and "observer" is linked by the time that task runs.
	p.AddLast(&IdleTimeoutHandler{Timeout: time.Second}, "idle")
	p.AddLast(&idleEventObserver{onEvent: func() { sawEvent = true }}, "observer")
	loop.Run()

	assert.True(t, sawEvent)
}

type idleEventObserver struct {
	HandlerAdapter
	onEvent func()
}

func (h *idleEventObserver) UserEventTriggered(ctx *HandlerContext, evt any) {
	if _, ok := evt.(IdleTimeoutEvent); ok {
		h.onEvent()
	}
	ctx.FireUserEventTriggered(evt)
}

func TestIdleTimeoutRearmsOnRead(t *testing.T) {
	p, loop, _ := newTestPipeline()
	handler := &IdleTimeoutHandler{Timeout: time.Second}
	p.AddLast(handler, "idle")
	loop.Run()
	require.NotNil(t, handler.cancel)

	p.FireChannelRead("data")
	loop.Run()
	assert.NotNil(t, handler.cancel, "a read must re-arm the timer, not leave it cancelled")
}

func TestIdleTimeoutFormalRemoveCancelsTimer(t *testing.T) {
	p, loop, _ := newTestPipeline()
	handler := &IdleTimeoutHandler{Timeout: time.Second}
	p.AddLast(handler, "idle")
	loop.Run()

	f := p.RemoveByName("idle")
	loop.Run()
	require.NoError(t, f.Wait().Err)
	assert.Nil(t, handler.cancel, "FormalRemove must cancel the pending timer before leaving")
}
