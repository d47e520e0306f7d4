// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

// Unit is a type not containing any value (analogous to an
// explicit `void` type in C and C++).
//
// Use this type as the value type of a [Future]/[Promise] pair for
// outbound operations that succeed or fail but carry no payload, such
// as bind, connect, close, and flush.
type Unit struct{}
