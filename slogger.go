//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/ooni/probe-cli/blob/v3.20.1/internal/netxlite/dialer.go
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/dialer.go
//

package netpipe

// SLogger abstracts the [*slog.Logger] behavior needed to log pipeline
// mutations and dispatch.
//
// By using an abstraction we allow for unit testing (capturing records
// without a real [*slog.Logger]) and for callers to route pipeline
// diagnostics through their own logging stack.
//
// This package uses two log levels:
//   - Info for handler_added, handler_removed, channel_active, and
//     channel_inactive, and for the pipeline mutations that add or
//     remove handlers (add, add_first, add_before, add_after,
//     add_multiple_first, remove_by_name, remove_by_reference)
//   - Debug for per-message dispatch on the embedded transport
//     (register, bind, connect, write, flush, read_request, close)
//
// The [*slog.Logger] type satisfies this interface.
type SLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// DefaultSLogger returns the default [SLogger] to use.
//
// The default discards everything, so a [*Pipeline] built with
// [NewConfig] produces no log output until the caller supplies its own
// [*slog.Logger] through [Config.Logger].
func DefaultSLogger() SLogger {
	return discardSLogger{}
}

// discardSLogger is a no-op [SLogger] that discards all log messages.
type discardSLogger struct{}

var _ SLogger = discardSLogger{}

// Debug implements [SLogger].
func (discardSLogger) Debug(msg string, args ...any) {
	// nothing
}

// Info implements [SLogger].
func (discardSLogger) Info(msg string, args ...any) {
	// nothing
}
