// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package posterior

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is wrapped by *LengthMismatchError.
	ErrLengthMismatch = errors.New("sample and parameter counts differ")

	// ErrInvalidDensity is wrapped by *InvalidDensityError and
	// returned for a nil observed density.
	ErrInvalidDensity = errors.New("invalid density")

	// ErrDivisionByZero is wrapped by *DivisionByZeroError.
	ErrDivisionByZero = errors.New("push-forward density is zero where observed density is positive")

	// ErrEmptyPosterior is returned when summarizing a posterior
	// with no samples.
	ErrEmptyPosterior = errors.New("posterior sample is empty")
)

// A LengthMismatchError reports QoI samples and parameter rows that
// do not line up.
type LengthMismatchError struct {
	Samples, Params int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%v: %d QoI samples, %d parameter rows", ErrLengthMismatch, e.Samples, e.Params)
}

func (e *LengthMismatchError) Unwrap() error {
	return ErrLengthMismatch
}

// An InvalidDensityError reports a density that evaluated to a
// negative or non-finite value at a sample.
type InvalidDensityError struct {
	// Density is "observed" or "push-forward".
	Density string
	Index   int
	Q       float64
	Value   float64
}

func (e *InvalidDensityError) Error() string {
	return fmt.Sprintf("%v: %s density at sample %d (q=%v) is %v", ErrInvalidDensity, e.Density, e.Index, e.Q, e.Value)
}

func (e *InvalidDensityError) Unwrap() error {
	return ErrInvalidDensity
}

// A DivisionByZeroError reports a sample whose importance ratio is
// positive/0.
type DivisionByZeroError struct {
	Index    int
	Q        float64
	Observed float64
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%v: sample %d (q=%v, observed density %v)", ErrDivisionByZero, e.Index, e.Q, e.Observed)
}

func (e *DivisionByZeroError) Unwrap() error {
	return ErrDivisionByZero
}
