// SPDX-License-Identifier: GPL-3.0-or-later

// Package nethttp illustrates composing an application protocol on top of
// a [netpipe.Pipeline]: a minimal HTTP/1.1 request/response codec,
// optional pipelining assistance and error handling, and a
// protocol-upgrade handler that reconfigures the pipeline in place when a
// negotiated ALPN protocol calls for it.
//
// None of this is a production HTTP implementation -- a full RFC 7230
// parser, HTTP/2 framing, and TLS termination are all outside this
// package's scope. What is in scope is showing that a [netpipe.Pipeline]
// can host a real-ish protocol stack whose handlers get added, removed,
// and spliced dynamically.
package nethttp
