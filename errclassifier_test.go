// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultErrClassifier(t *testing.T) {
	assert.Equal(t, "", DefaultErrClassifier.Classify(nil))
	assert.Equal(t, "", DefaultErrClassifier.Classify(context.DeadlineExceeded))
	assert.Equal(t, "", DefaultErrClassifier.Classify(errors.New("unknown error")))
}

func TestErrClassifierFunc(t *testing.T) {
	fn := ErrClassifierFunc(func(err error) string {
		if err == nil {
			return ""
		}
		return "SOME_CLASS"
	})
	var classifier ErrClassifier = fn
	assert.Equal(t, "", classifier.Classify(nil))
	assert.Equal(t, "SOME_CLASS", classifier.Classify(errors.New("boom")))
}
