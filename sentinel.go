// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

const (
	headContextName = "head"
	tailContextName = "tail"
)

// headHandler is the head sentinel's handler. It is the
// outbound terminus: every outbound initiator eventually reaches it and
// it translates the call into a [Transport] operation. It has no inbound
// capabilities of its own -- inbound events are injected by the pipeline
// calling the head context's Fire* methods directly, which is equivalent
// to "the head firing them".
type headHandler struct {
	pipeline *Pipeline
}

var (
	_ OutboundRegisterer        = (*headHandler)(nil)
	_ OutboundBinder            = (*headHandler)(nil)
	_ OutboundConnector         = (*headHandler)(nil)
	_ OutboundWriter            = (*headHandler)(nil)
	_ OutboundFlusher           = (*headHandler)(nil)
	_ OutboundReadRequester     = (*headHandler)(nil)
	_ OutboundCloser            = (*headHandler)(nil)
	_ OutboundUserEventTriggerer = (*headHandler)(nil)
)

func bridgeUnit(f *Future[Unit], p *Promise[Unit]) {
	f.OnComplete(func(r Result[Unit]) {
		if r.Err != nil {
			p.Fail(r.Err)
			return
		}
		p.Succeed(r.Value)
	})
}

func (h *headHandler) Register(ctx *HandlerContext, promise *Promise[Unit]) {
	bridgeUnit(h.pipeline.transport.Register(), promise)
}

func (h *headHandler) Bind(ctx *HandlerContext, addr string, promise *Promise[Unit]) {
	bridgeUnit(h.pipeline.transport.Bind(addr), promise)
}

func (h *headHandler) Connect(ctx *HandlerContext, addr string, promise *Promise[Unit]) {
	bridgeUnit(h.pipeline.transport.Connect(addr), promise)
}

func (h *headHandler) Write(ctx *HandlerContext, msg any, promise *Promise[Unit]) {
	bridgeUnit(h.pipeline.transport.Write(msg), promise)
}

func (h *headHandler) Flush(ctx *HandlerContext) {
	h.pipeline.transport.Flush()
}

func (h *headHandler) Read(ctx *HandlerContext) {
	h.pipeline.transport.ReadRequest()
}

func (h *headHandler) Close(ctx *HandlerContext, promise *Promise[Unit]) {
	bridgeUnit(h.pipeline.transport.Close(), promise)
}

func (h *headHandler) TriggerUserEvent(ctx *HandlerContext, evt any, promise *Promise[Unit]) {
	// The transport interface has no user-event hook; a real transport
	// implementation would translate specific events (e.g. TLS renegotiate
	// requests) itself. Here there is nothing to do but succeed.
	if promise != nil {
		promise.Succeed(Unit{})
	}
}

// tailHandler is the tail sentinel's handler. It is the inbound terminus:
// every inbound event eventually reaches it. Unhandled reads are handed to
// the channel's [InboundRecorder] if it implements one, otherwise
// discarded silently.
type tailHandler struct {
	pipeline *Pipeline
}

var (
	_ InboundReader             = (*tailHandler)(nil)
	_ InboundReadCompleter      = (*tailHandler)(nil)
	_ InboundActivator          = (*tailHandler)(nil)
	_ InboundDeactivator        = (*tailHandler)(nil)
	_ InboundUserEventHandler   = (*tailHandler)(nil)
	_ InboundErrorHandler       = (*tailHandler)(nil)
	_ InboundWritabilityHandler = (*tailHandler)(nil)
)

func (t *tailHandler) ChannelRead(ctx *HandlerContext, msg any) {
	if rec, ok := t.pipeline.channel.(InboundRecorder); ok {
		rec.RecordInbound(msg)
	}
}

func (t *tailHandler) ChannelReadComplete(ctx *HandlerContext) {}

func (t *tailHandler) ChannelActive(ctx *HandlerContext) {}

func (t *tailHandler) ChannelInactive(ctx *HandlerContext) {}

func (t *tailHandler) UserEventTriggered(ctx *HandlerContext, evt any) {}

func (t *tailHandler) ErrorCaught(ctx *HandlerContext, err error) {
	t.pipeline.lastErr = err
}

func (t *tailHandler) ChannelWritabilityChanged(ctx *HandlerContext) {}
