// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import "fmt"

// ExpectType asserts that msg carries a value of type T and returns it.
//
// Messages travel through a [Pipeline] as opaque `any` values; a handler
// that only understands one message shape calls ExpectType to recover it.
// A mismatch is a mis-wired pipeline -- a programmer error, not a runtime
// recoverable condition -- so ExpectType panics with an error wrapping
// [ErrWrongType] rather than returning ok=false.
func ExpectType[T any](msg any) T {
	v, ok := msg.(T)
	if !ok {
		panic(fmt.Errorf("%w: expected %T, got %T", ErrWrongType, v, msg))
	}
	return v
}
