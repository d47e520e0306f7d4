// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 representing a span.
//
// A span is a sequence of operations that can fail in a single, specific
// way. For example, a pipeline mutation (add/remove) and the lifecycle
// callback it triggers, or a single dispatch of an event through the
// pipeline. Use a span ID to correlate the structured log events a
// mutation or dispatch emits.
//
// The span terminology is borrowed from OTel.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
