// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rejection implements weighted accept/reject selection of
// sample indices.
package rejection // import "github.com/cbayes/go-cbayes/rejection"

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyWeights is returned when there is nothing to select
	// from.
	ErrEmptyWeights = errors.New("no weights")

	// ErrAllWeightsZero is returned when every weight is zero, so
	// the target distribution is undefined.
	ErrAllWeightsZero = errors.New("all weights are zero")

	// ErrInvalidWeight is wrapped by *InvalidWeightError.
	ErrInvalidWeight = errors.New("invalid weight")
)

// An InvalidWeightError reports a negative or non-finite weight.
type InvalidWeightError struct {
	Index  int
	Weight float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("%v at index %d: %v", ErrInvalidWeight, e.Index, e.Weight)
}

func (e *InvalidWeightError) Unwrap() error {
	return ErrInvalidWeight
}

// A Source produces uniform random values in [0, 1). *rand.Rand from
// math/rand and math/rand/v2 both implement it.
type Source interface {
	Float64() float64
}

// Select performs one accept/reject trial per weight and returns the
// accepted indices in increasing order.
//
// With M the largest weight, index i is accepted iff
// weights[i] / M >= u_i, where u_i is the i'th value drawn from rng.
// Exactly one value is drawn per weight, in index order, so a seeded
// rng reproduces the same selection. Zero weights are never accepted.
//
// If the weights are importance ratios for samples drawn i.i.d. from
// a reference distribution, the accepted samples are distributed
// proportionally to weight × reference.
func Select(weights []float64, rng Source) ([]int, error) {
	if err := Check(weights); err != nil {
		return nil, err
	}
	m := floats.Max(weights)

	var accepted []int
	for i, w := range weights {
		u := rng.Float64()
		if w > 0 && w/m >= u {
			accepted = append(accepted, i)
		}
	}
	return accepted, nil
}

// Check reports whether weights can be used for Select.
func Check(weights []float64) error {
	if len(weights) == 0 {
		return ErrEmptyWeights
	}
	positive := false
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return &InvalidWeightError{Index: i, Weight: w}
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return ErrAllWeightsZero
	}
	return nil
}

// AcceptRate returns the fraction of n trials that were accepted.
func AcceptRate(accepted []int, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return float64(len(accepted)) / float64(n)
}
