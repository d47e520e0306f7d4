// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

// ErrClassifier classifies errors into categorical strings for structured
// logging.
//
// Implementations map errors to short, descriptive labels (e.g.,
// "not-found", "duplicate-name") that let a log aggregator group pipeline
// mutation and dispatch failures without parsing error strings.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
//
// This allows using simple functions as classifiers. A classifier for this
// package's own sentinel errors looks like:
//
//	cfg.ErrClassifier = ErrClassifierFunc(func(err error) string {
//		switch {
//		case errors.Is(err, ErrNotFound):
//			return "not-found"
//		case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrDuplicateInstance):
//			return "duplicate"
//		case errors.Is(err, ErrIOOnClosedChannel), errors.Is(err, ErrAlreadyClosed):
//			return "closed"
//		default:
//			return "other"
//		}
//	})
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier is a no-op classifier that returns an empty string.
var DefaultErrClassifier = ErrClassifierFunc(func(error) string { return "" })
