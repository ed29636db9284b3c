// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySample is returned when an estimate is requested
	// from a sample with no values.
	ErrEmptySample = errors.New("sample is empty")

	// ErrNonFinite is returned (wrapped in an *InputError) when a
	// sample value or weight is NaN or infinite.
	ErrNonFinite = errors.New("value is not finite")

	// ErrNegativeWeight is returned (wrapped in an *InputError)
	// when a sample weight is negative.
	ErrNegativeWeight = errors.New("weight is negative")

	// ErrWeightsLength is returned when a sample's Weights do not
	// match its Xs.
	ErrWeightsLength = errors.New("len(weights) != len(xs)")

	// ErrDegenerateSample is returned when a bandwidth cannot be
	// derived from a sample, for example because it has fewer
	// than two distinct values.
	ErrDegenerateSample = errors.New("sample is degenerate")

	// ErrInvalidBandwidth is returned for an explicit bandwidth
	// that is negative or not finite.
	ErrInvalidBandwidth = errors.New("invalid bandwidth")
)

// An InputError reports a bad value in a sample.
type InputError struct {
	// Index is the position of the offending value in Xs (or
	// Weights).
	Index int
	Value float64
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: index %d (%v)", e.Err, e.Index, e.Value)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
