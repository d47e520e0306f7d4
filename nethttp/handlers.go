// SPDX-License-Identifier: GPL-3.0-or-later

package nethttp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rbmk-project/netpipe"
)

// Request is a minimal decoded HTTP/1.1 request.
type Request struct {
	Method string
	Path   string
	Header map[string]string
	Body   []byte
}

// Response is a minimal HTTP/1.1 response, ready for [ResponseEncoder].
type Response struct {
	Status int
	Reason string
	Header map[string]string
	Body   []byte
}

// RequestDecoder turns raw inbound bytes into a [*Request].
//
// The parser is deliberately minimal: a request line plus a handful of
// headers, no chunked transfer-encoding, no continuation lines. Its job
// is to illustrate a codec handler sitting between the transport and
// application handlers, not to be a production HTTP/1.1 implementation.
type RequestDecoder struct {
	netpipe.HandlerAdapter
}

var _ netpipe.InboundReader = (*RequestDecoder)(nil)

// ChannelRead implements [netpipe.InboundReader].
func (d *RequestDecoder) ChannelRead(ctx *netpipe.HandlerContext, msg any) {
	raw := netpipe.ExpectType[[]byte](msg)
	req, err := parseRequest(raw)
	if err != nil {
		ctx.FireErrorCaught(err)
		return
	}
	ctx.FireChannelRead(req)
}

// IsRemovable implements [netpipe.Removable], so [UpgradeHandler] can
// splice the decoder out.
func (d *RequestDecoder) IsRemovable() bool { return true }

func parseRequest(raw []byte) (*Request, error) {
	lines := strings.Split(string(raw), "\r\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("nethttp: empty request")
	}
	parts := strings.Fields(lines[0])
	if len(parts) < 2 {
		return nil, fmt.Errorf("nethttp: malformed request line %q", lines[0])
	}
	req := &Request{Method: parts[0], Path: parts[1], Header: map[string]string{}}
	body := ""
	for i, line := range lines[1:] {
		if line == "" {
			body = strings.Join(lines[i+2:], "\r\n")
			break
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		req.Header[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	req.Body = []byte(body)
	return req, nil
}

// ResponseEncoder turns outbound [*Response] values into raw bytes.
type ResponseEncoder struct {
	netpipe.HandlerAdapter
}

var _ netpipe.OutboundWriter = (*ResponseEncoder)(nil)

// Write implements [netpipe.OutboundWriter].
func (e *ResponseEncoder) Write(ctx *netpipe.HandlerContext, msg any, promise *netpipe.Promise[netpipe.Unit]) {
	resp := netpipe.ExpectType[*Response](msg)
	reason := resp.Reason
	if reason == "" {
		reason = "OK"
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", resp.Status, reason)
	for k, v := range resp.Header {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(resp.Body))
	b.Write(resp.Body)
	ctx.Write(b.Bytes(), promise)
}

// IsRemovable implements [netpipe.Removable], so [UpgradeHandler] can
// splice the encoder out.
func (e *ResponseEncoder) IsRemovable() bool { return true }

// PipeliningAssistance requests the next inbound read as soon as one
// finishes, giving simple HTTP/1.1-style request pipelining without
// requiring the transport to manage read demand itself.
type PipeliningAssistance struct {
	netpipe.HandlerAdapter
}

var _ netpipe.InboundReadCompleter = (*PipeliningAssistance)(nil)

// ChannelReadComplete implements [netpipe.InboundReadCompleter].
func (p *PipeliningAssistance) ChannelReadComplete(ctx *netpipe.HandlerContext) {
	ctx.FireChannelReadComplete()
	ctx.Read()
}

// ErrorHandler turns any error reaching it into a 500 response and closes
// the channel.
type ErrorHandler struct {
	netpipe.HandlerAdapter
}

var _ netpipe.InboundErrorHandler = (*ErrorHandler)(nil)

// ErrorCaught implements [netpipe.InboundErrorHandler].
func (h *ErrorHandler) ErrorCaught(ctx *netpipe.HandlerContext, err error) {
	resp := &Response{Status: 500, Reason: "Internal Server Error", Body: []byte(err.Error())}
	ctx.WriteAndFlush(resp, nil)
	ctx.Close(nil)
}
