// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is a collection of possibly weighted data points.
type Sample struct {
	// Xs is the slice of sample values.
	Xs []float64

	// Weights[i] is the weight of sample Xs[i]. If Weights is
	// nil, all Xs have weight 1. Weights must have the same
	// length of Xs and all values must be non-negative.
	Weights []float64

	// Sorted indicates that Xs is sorted in ascending order.
	Sorted bool
}

// Bounds returns the minimum and maximum values of xs.
func Bounds(xs []float64) (min float64, max float64) {
	if len(xs) == 0 {
		return nan, nan
	}
	return floats.Min(xs), floats.Max(xs)
}

// Bounds returns the minimum and maximum values of the Sample.
//
// If the Sample is weighted, this ignores samples with zero weight.
//
// This is constant time if s.Sorted and there are no zero-weighted
// values.
func (s Sample) Bounds() (min float64, max float64) {
	if len(s.Xs) == 0 || (!s.Sorted && s.Weights == nil) {
		return Bounds(s.Xs)
	}

	if s.Sorted {
		if s.Weights == nil {
			return s.Xs[0], s.Xs[len(s.Xs)-1]
		}
		min, max = nan, nan
		for i, w := range s.Weights {
			if w != 0 {
				min = s.Xs[i]
				break
			}
		}
		if math.IsNaN(min) {
			return
		}
		for i := range s.Weights {
			if s.Weights[len(s.Weights)-i-1] != 0 {
				max = s.Xs[len(s.Weights)-i-1]
				break
			}
		}
		return
	}

	min, max = inf, -inf
	for i, x := range s.Xs {
		w := s.Weights[i]
		if x < min && w != 0 {
			min = x
		}
		if x > max && w != 0 {
			max = x
		}
	}
	if math.IsInf(min, 0) {
		min, max = nan, nan
	}
	return
}

// Sum returns the (possibly weighted) sum of the Sample.
func (s Sample) Sum() float64 {
	if s.Weights == nil {
		return floats.Sum(s.Xs)
	}
	return floats.Dot(s.Xs, s.Weights)
}

// Weight returns the total weight of the Sample.
func (s Sample) Weight() float64 {
	if s.Weights == nil {
		return float64(len(s.Xs))
	}
	return floats.Sum(s.Weights)
}

// Mean returns the arithmetic mean of the Sample, or NaN if the
// Sample is empty.
func (s Sample) Mean() float64 {
	if len(s.Xs) == 0 {
		return nan
	}
	return stat.Mean(s.Xs, s.Weights)
}

// Variance returns the sample variance of the Sample, using the
// unbiased n-1 normalization.
func (s Sample) Variance() float64 {
	if len(s.Xs) == 0 {
		return nan
	} else if len(s.Xs) == 1 {
		return 0
	}
	return stat.Variance(s.Xs, s.Weights)
}

// StdDev returns the sample standard deviation of the Sample.
func (s Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// PopStdDev returns the population standard deviation of the Sample,
// normalizing by the total weight rather than the total weight less
// one.
func (s Sample) PopStdDev() float64 {
	if len(s.Xs) == 0 {
		return nan
	}
	_, std := stat.PopMeanStdDev(s.Xs, s.Weights)
	return std
}

// Percentile returns the pctileth value from the Sample. This uses
// the empirical (inverse of the empirical CDF) definition. pctile
// will be capped to the range [0, 1]. If len(xs) == 0 or all weights
// are 0, returns NaN.
//
// Percentile(0.5) is the median. Percentile(0.25) and
// Percentile(0.75) are the first and third quartiles, respectively.
//
// This is constant time if s.Sorted and s.Weights == nil.
func (s Sample) Percentile(pctile float64) float64 {
	if len(s.Xs) == 0 || s.Weight() == 0 {
		return nan
	}
	if pctile <= 0 {
		min, _ := s.Bounds()
		return min
	} else if pctile >= 1 {
		_, max := s.Bounds()
		return max
	}

	if !s.Sorted {
		s = *s.Copy().Sort()
	}
	return stat.Quantile(pctile, stat.Empirical, s.Xs, s.Weights)
}

// IQR returns the interquartile range of the Sample.
func (s Sample) IQR() float64 {
	if !s.Sorted {
		s = *s.Copy().Sort()
	}
	return s.Percentile(0.75) - s.Percentile(0.25)
}

// Distinct returns the number of distinct values in the Sample,
// counting only values with non-zero weight.
func (s Sample) Distinct() int {
	seen := make(map[float64]struct{}, len(s.Xs))
	for i, x := range s.Xs {
		if s.Weights != nil && s.Weights[i] == 0 {
			continue
		}
		seen[x] = struct{}{}
	}
	return len(seen)
}

// Sort sorts the samples in place in s and returns s.
//
// A sorted sample improves the performance of some algorithms.
func (s *Sample) Sort() *Sample {
	if s.Sorted || sort.Float64sAreSorted(s.Xs) {
		// All set
	} else if s.Weights == nil {
		sort.Float64s(s.Xs)
	} else {
		sort.Sort(&sampleSorter{s.Xs, s.Weights})
	}
	s.Sorted = true
	return s
}

type sampleSorter struct {
	xs      []float64
	weights []float64
}

func (p *sampleSorter) Len() int {
	return len(p.xs)
}

func (p *sampleSorter) Less(i, j int) bool {
	return p.xs[i] < p.xs[j]
}

func (p *sampleSorter) Swap(i, j int) {
	p.xs[i], p.xs[j] = p.xs[j], p.xs[i]
	p.weights[i], p.weights[j] = p.weights[j], p.weights[i]
}

// Copy returns a copy of the Sample.
//
// The returned Sample shares no data with the original, so they can
// be modified (for example, sorted) independently.
func (s Sample) Copy() *Sample {
	xs := make([]float64, len(s.Xs))
	copy(xs, s.Xs)

	weights := []float64(nil)
	if s.Weights != nil {
		weights = make([]float64, len(s.Weights))
		copy(weights, s.Weights)
	}

	return &Sample{xs, weights, s.Sorted}
}

// check validates the Sample's values and weights.
func (s Sample) check() error {
	if len(s.Xs) == 0 {
		return ErrEmptySample
	}
	if s.Weights != nil && len(s.Weights) != len(s.Xs) {
		return ErrWeightsLength
	}
	for i, x := range s.Xs {
		if !isFinite(x) {
			return &InputError{Index: i, Value: x, Err: ErrNonFinite}
		}
	}
	for i, w := range s.Weights {
		if !isFinite(w) {
			return &InputError{Index: i, Value: w, Err: ErrNonFinite}
		}
		if w < 0 {
			return &InputError{Index: i, Value: w, Err: ErrNegativeWeight}
		}
	}
	return nil
}
