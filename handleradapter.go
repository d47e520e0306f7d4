// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

// HandlerAdapter is an embeddable base that implements every inbound and
// outbound capability interface by forwarding to the next (inbound) or
// previous (outbound) context, exactly what the dispatch walk already does
// for a handler that simply does not implement a given capability. The one
// exception is Register, which succeeds its promise without forwarding.
//
// Embedding it is never required for correct forwarding -- the capability-
// interface design already makes an unimplemented method equivalent to a
// pass-through, unlike Netty's single fat ChannelHandler interface, which
// forces every implementation to inherit its adapter to get the same
// effect. HandlerAdapter exists for handlers that want to override one or
// two events but still satisfy the full capability set at compile time,
// e.g. to be assignable to a variable typed as an interface bundling
// several capabilities.
type HandlerAdapter struct{}

func (HandlerAdapter) ChannelRead(ctx *HandlerContext, msg any) { ctx.FireChannelRead(msg) }
func (HandlerAdapter) ChannelReadComplete(ctx *HandlerContext)  { ctx.FireChannelReadComplete() }
func (HandlerAdapter) ChannelActive(ctx *HandlerContext)        { ctx.FireChannelActive() }
func (HandlerAdapter) ChannelInactive(ctx *HandlerContext)      { ctx.FireChannelInactive() }
func (HandlerAdapter) UserEventTriggered(ctx *HandlerContext, evt any) {
	ctx.FireUserEventTriggered(evt)
}
func (HandlerAdapter) ErrorCaught(ctx *HandlerContext, err error) { ctx.FireErrorCaught(err) }
func (HandlerAdapter) ChannelWritabilityChanged(ctx *HandlerContext) {
	ctx.FireChannelWritabilityChanged()
}

func (HandlerAdapter) Register(ctx *HandlerContext, promise *Promise[Unit]) {
	// Only the head sentinel actually talks to the transport, so a
	// HandlerAdapter in the middle of the chain that receives Register
	// just succeeds trivially.
	if promise != nil {
		promise.Succeed(Unit{})
	}
}
func (HandlerAdapter) Bind(ctx *HandlerContext, addr string, promise *Promise[Unit]) {
	ctx.Bind(addr, promise)
}
func (HandlerAdapter) Connect(ctx *HandlerContext, addr string, promise *Promise[Unit]) {
	ctx.Connect(addr, promise)
}
func (HandlerAdapter) Write(ctx *HandlerContext, msg any, promise *Promise[Unit]) {
	ctx.Write(msg, promise)
}
func (HandlerAdapter) Flush(ctx *HandlerContext) { ctx.Flush() }
func (HandlerAdapter) Read(ctx *HandlerContext)  { ctx.Read() }
func (HandlerAdapter) Close(ctx *HandlerContext, promise *Promise[Unit]) {
	ctx.Close(promise)
}
func (HandlerAdapter) TriggerUserEvent(ctx *HandlerContext, evt any, promise *Promise[Unit]) {
	ctx.TriggerUserOutboundEvent(evt, promise)
}
