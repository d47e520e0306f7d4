// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/bassosimone/nop dnsoverhttps.go, dnsdial.go
//

package nethttp

import (
	"github.com/miekg/dns"
	"golang.org/x/net/http2"

	"github.com/rbmk-project/netpipe"
)

// ProtocolUpgradeRequested is fired as a user inbound event to ask the
// pipeline to reconfigure itself for a negotiated protocol, e.g. once a
// TLS handshake's ALPN result is known.
type ProtocolUpgradeRequested struct {
	NegotiatedProtocol string
}

// DoHProtocol is the ALPN/content-type token this package recognizes as
// "the client wants DNS-over-HTTPS", per RFC 8484.
const DoHProtocol = "application/dns-message"

// UpgradeHandler splices a DNS-over-HTTPS message codec into the pipeline
// in place of the plain HTTP codec, once it observes a
// [ProtocolUpgradeRequested] event naming [DoHProtocol]. This is
// illustrative: it demonstrates a pipeline reconfiguring itself in
// response to a negotiated protocol, not a complete DoH server -- request
// routing, caching, and upstream resolution are all outside this
// package's scope.
type UpgradeHandler struct {
	netpipe.HandlerAdapter
}

var _ netpipe.InboundUserEventHandler = (*UpgradeHandler)(nil)

// UserEventTriggered implements [netpipe.InboundUserEventHandler].
func (u *UpgradeHandler) UserEventTriggered(ctx *netpipe.HandlerContext, evt any) {
	req, ok := evt.(ProtocolUpgradeRequested)
	if !ok {
		ctx.FireUserEventTriggered(evt)
		return
	}
	switch req.NegotiatedProtocol {
	case http2.NextProtoTLS:
		// h2 is recognized but not implemented here; a real server would
		// splice an HTTP/2 frame codec in at this point instead.
	case DoHProtocol:
		u.upgradeToDoH(ctx)
	}
}

func (u *UpgradeHandler) upgradeToDoH(ctx *netpipe.HandlerContext) {
	pipeline := ctx.Pipeline()
	pipeline.RemoveByName(NameRequestDecoder)
	pipeline.RemoveByName(NameResponseEncoder)
	pipeline.AddAfter(ctx.Name(), &dnsMessageDecoder{}, "nethttp.dnsMessageDecoder")
	pipeline.AddAfter(ctx.Name(), &dnsMessageEncoder{}, "nethttp.dnsMessageEncoder")
}

// dnsMessageDecoder turns an already-HTTP-decoded [*Request]'s body into a
// [*dns.Msg].
type dnsMessageDecoder struct {
	netpipe.HandlerAdapter
}

var _ netpipe.InboundReader = (*dnsMessageDecoder)(nil)

func (d *dnsMessageDecoder) ChannelRead(ctx *netpipe.HandlerContext, msg any) {
	req := netpipe.ExpectType[*Request](msg)
	m := new(dns.Msg)
	if err := m.Unpack(req.Body); err != nil {
		ctx.FireErrorCaught(err)
		return
	}
	ctx.FireChannelRead(m)
}

// dnsMessageEncoder turns an outbound [*dns.Msg] into a DoH [*Response].
type dnsMessageEncoder struct {
	netpipe.HandlerAdapter
}

var _ netpipe.OutboundWriter = (*dnsMessageEncoder)(nil)

func (e *dnsMessageEncoder) Write(ctx *netpipe.HandlerContext, msg any, promise *netpipe.Promise[netpipe.Unit]) {
	m := netpipe.ExpectType[*dns.Msg](msg)
	packed, err := m.Pack()
	if err != nil {
		if promise != nil {
			promise.Fail(err)
		} else {
			ctx.FireErrorCaught(err)
		}
		return
	}
	resp := &Response{
		Status: 200,
		Header: map[string]string{"Content-Type": DoHProtocol},
		Body:   packed,
	}
	ctx.Write(resp, promise)
}
