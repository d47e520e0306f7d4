// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)

	// ErrClassifier should be DefaultErrClassifier
	assert.Equal(t, "", cfg.ErrClassifier.Classify(nil))

	// Logger should be set and non-nil
	require.NotNil(t, cfg.Logger)

	// SpanIDGenerator should produce distinct, non-empty span IDs
	require.NotNil(t, cfg.SpanIDGenerator)
	a := cfg.SpanIDGenerator()
	b := cfg.SpanIDGenerator()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	// TimeNow should be set and return a valid time
	now := cfg.TimeNow()
	assert.False(t, now.IsZero())
}
