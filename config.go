// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import "time"

// Config holds common configuration for pipeline operations.
//
// Pass this to [Pipeline] and [HandlerContext] constructors to pre-wire
// dependencies. All fields have sensible defaults set by [NewConfig].
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with pipeline operations.
type Config struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use for structured logging of pipeline
	// mutations and lifecycle transitions.
	//
	// Set by [NewConfig] to [DefaultSLogger] (discards output).
	Logger SLogger

	// SpanIDGenerator generates a span ID used to correlate the events
	// emitted by a single pipeline mutation or dispatch.
	//
	// Set by [NewConfig] to [NewSpanID].
	SpanIDGenerator func() string

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		ErrClassifier:   DefaultErrClassifier,
		Logger:          DefaultSLogger(),
		SpanIDGenerator: NewSpanID,
		TimeNow:         time.Now,
	}
}
