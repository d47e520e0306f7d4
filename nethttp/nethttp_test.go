// SPDX-License-Identifier: GPL-3.0-or-later

package nethttp

import (
	"context"
	"log/slog"
	"testing"

	"github.com/bassosimone/slogstub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbmk-project/netpipe"
	"github.com/rbmk-project/netpipe/embedded"
)

func newCapturingConfig() (*netpipe.Config, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(context.Context, slog.Level) bool { return true },
		HandleFunc: func(_ context.Context, r slog.Record) error {
			records = append(records, r)
			return nil
		},
	}
	cfg := netpipe.NewConfig()
	cfg.Logger = slog.New(handler)
	return cfg, &records
}

// echoHandler turns a decoded [*Request] into a [*Response] whose body is
// the request path, exercising a typical application handler sitting
// downstream of the HTTP codec.
type echoHandler struct {
	netpipe.HandlerAdapter
}

func (h *echoHandler) ChannelRead(ctx *netpipe.HandlerContext, msg any) {
	req := netpipe.ExpectType[*Request](msg)
	ctx.WriteAndFlush(&Response{Status: 200, Body: []byte(req.Path)}, nil)
}

func TestRequestResponseRoundTrip(t *testing.T) {
	c := embedded.NewChannel(nil)
	c.Activate()

	f := InstallPipeline(c.Pipeline(), Options{})
	c.Loop().Run()
	require.NoError(t, f.Wait().Err)

	c.Loop().Execute(func() {
		c.Pipeline().AddLast(&echoHandler{}, "echo")
	})
	c.Loop().Run()

	raw := []byte("GET /hello HTTP/1.1\r\nHost: example.test\r\n\r\n")
	c.WriteInbound(raw)

	out, ok := c.ReadOutbound()
	require.True(t, ok)
	resp := out.([]byte)
	assert.Contains(t, string(resp), "HTTP/1.1 200 OK")
	assert.Contains(t, string(resp), "/hello")
}

func TestRequestDecoderMalformedFiresError(t *testing.T) {
	c := embedded.NewChannel(nil)
	c.Activate()

	f := InstallPipeline(c.Pipeline(), Options{EnableErrorHandler: true})
	c.Loop().Run()
	require.NoError(t, f.Wait().Err)

	c.WriteInbound([]byte(""))

	out, ok := c.ReadOutbound()
	require.True(t, ok)
	resp := out.([]byte)
	assert.Contains(t, string(resp), "500")
	assert.False(t, c.IsActive(), "ErrorHandler closes the transport-level connection")
}

func TestPipeliningAssistanceRequestsAnotherRead(t *testing.T) {
	cfg, records := newCapturingConfig()
	c := embedded.NewChannel(cfg)
	c.Activate()

	f := InstallPipeline(c.Pipeline(), Options{EnablePipelining: true})
	c.Loop().Run()
	require.NoError(t, f.Wait().Err)

	c.Loop().Execute(func() {
		c.Pipeline().AddLast(&echoHandler{}, "echo")
	})
	c.Loop().Run()

	*records = nil
	c.WriteInbound([]byte("GET / HTTP/1.1\r\n\r\n"))

	var sawReadRequest bool
	for _, r := range *records {
		if r.Message == "readRequestStart" {
			sawReadRequest = true
		}
	}
	assert.True(t, sawReadRequest, "PipeliningAssistance should request another read after each one completes")
}

func TestUpgradeHandlerSplicesInDoHCodec(t *testing.T) {
	c := embedded.NewChannel(nil)
	c.Activate()

	upgrade := &UpgradeHandler{}
	f := InstallPipeline(c.Pipeline(), Options{Upgrade: upgrade})
	c.Loop().Run()
	require.NoError(t, f.Wait().Err)

	c.Loop().Execute(func() {
		c.Pipeline().FireUserEventTriggered(ProtocolUpgradeRequested{NegotiatedProtocol: DoHProtocol})
	})
	c.Loop().Run()

	c.Loop().Execute(func() {
		names := c.Pipeline().Names()
		assert.NotContains(t, names, NameRequestDecoder)
		assert.NotContains(t, names, NameResponseEncoder)
		assert.Contains(t, names, "nethttp.dnsMessageDecoder")
		assert.Contains(t, names, "nethttp.dnsMessageEncoder")
	})
	c.Loop().Run()
}
