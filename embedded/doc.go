// SPDX-License-Identifier: GPL-3.0-or-later

// Package embedded provides the in-memory [netpipe.EventLoop],
// [netpipe.Channel], and [netpipe.Transport] implementations used to
// drive a [netpipe.Pipeline] without any real socket or datagram I/O.
//
// [*Loop] runs tasks synchronously off a FIFO queue when told to, rather
// than on a background goroutine, which makes tests deterministic: no
// dispatch happens until the test calls [*Loop.Run] or one of [*Channel]'s
// convenience methods that drains it. [*Channel] additionally records
// every inbound message that reaches the tail sentinel unhandled and
// every outbound write the head sentinel hands to the transport, so tests
// can assert on exactly what a pipeline produced.
package embedded
