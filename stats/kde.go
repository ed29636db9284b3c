// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"fmt"
	"math"
)

// KDE represents options for constructing a Gaussian kernel density
// estimate.
//
// Kernel density estimation is a method for constructing an estimate
// ƒ̂(x) of a unknown distribution ƒ(x) given a sample from that
// distribution. Unlike many techniques, kernel density estimation is
// non-parametric: in general, it doesn't assume any particular true
// distribution (note, however, that the resulting distribution
// depends deeply on the selected bandwidth, and many bandwidth
// estimation techniques assume normal reference rules).
//
// For a sample x₁…xₙ with bandwidth h, the estimate is
//
//	ƒ̂(x) = 1/(n h) Σᵢ φ((x - xᵢ)/h)
//
// where φ is the standard normal density. Weighted samples replace
// 1/n with wᵢ/Σw.
//
// To construct a kernel density estimate, create an instance of KDE
// and then use the From method to provide data.
//
// The default (zero) value of KDE is a reasonable default
// configuration.
type KDE struct {
	// Bandwidth is the bandwidth to use for the KDE.
	//
	// If this is zero, the bandwidth is computed from the
	// provided data using BandwidthRule.
	Bandwidth float64

	// BandwidthRule computes a bandwidth from the data when
	// Bandwidth is zero. If nil, BandwidthSilverman is used.
	BandwidthRule BandwidthEstimator

	// BoundaryMethod is the boundary correction method to use for
	// the KDE. The default value is BoundaryReflect; however, the
	// default bounds are effectively +/-inf, which is equivalent
	// to performing no boundary correction.
	BoundaryMethod KDEBoundaryMethod

	// [BoundaryMin, BoundaryMax) specify a bounded support for
	// the KDE. If both are 0 (their default values), they are
	// treated as +/-inf.
	//
	// To specify a half-bounded support, set Min to math.Inf(-1)
	// or Max to math.Inf(1).
	BoundaryMin float64
	BoundaryMax float64
}

// BandwidthData is the information a BandwidthEstimator needs from a
// sample. Sample implements it.
type BandwidthData interface {
	StdDev() float64
	Weight() float64
	Percentile(float64) float64
}

// A BandwidthEstimator computes a KDE bandwidth from data.
type BandwidthEstimator func(data BandwidthData) float64

// BandwidthSilverman is a bandwidth estimator implementing
// Silverman's Rule of Thumb:
//
//	h = 0.9 min(σ, IQR/1.34) n^(-1/5)
//
// If the interquartile range is zero (more than half the sample
// shares one value), σ alone is used.
//
// Silverman, B. W. (1986) Density Estimation.
func BandwidthSilverman(data BandwidthData) float64 {
	iqr := data.Percentile(0.75) - data.Percentile(0.25)
	hScale := 0.9 * math.Pow(data.Weight(), -1.0/5)
	stdDev := data.StdDev()
	if iqr > 0 && iqr/1.34 < stdDev {
		return hScale * (iqr / 1.34)
	}
	return hScale * stdDev
}

// BandwidthScott is a bandwidth estimator implementing Scott's Rule.
// This is generally robust to outliers: it chooses the minimum
// between the sample's standard deviation and an robust estimator of
// a Gaussian distribution's standard deviation.
//
// Scott, D. W. (1992) Multivariate Density Estimation: Theory,
// Practice, and Visualization.
func BandwidthScott(data BandwidthData) float64 {
	iqr := data.Percentile(0.75) - data.Percentile(0.25)
	hScale := 1.06 * math.Pow(data.Weight(), -1.0/5)
	stdDev := data.StdDev()
	if iqr <= 0 || stdDev < iqr/1.349 {
		// Use Silverman's Rule of Thumb
		return hScale * stdDev
	}
	// Use IQR/1.349 as a robust estimator of the standard
	// deviation of a Gaussian distribution.
	return hScale * (iqr / 1.349)
}

// KDEBoundaryMethod represents a boundary correction method for
// constructing a KDE with bounded support.
type KDEBoundaryMethod int

const (
	// BoundaryReflect reflects the density estimate at the
	// boundaries.  For example, for a KDE with support [0, inf),
	// this is equivalent to ƒ̂ᵣ(x)=ƒ̂(x)+ƒ̂(-x) for x>=0.  This is a
	// simple and fast technique, but enforces that ƒ̂ᵣ'(0)=0, so
	// it may not be applicable to all distributions.
	BoundaryReflect KDEBoundaryMethod = iota

	// boundaryNone represents no boundary correction.
	//
	// This is used internally when the bounds are -/+inf.
	boundaryNone
)

func (m KDEBoundaryMethod) String() string {
	switch m {
	case BoundaryReflect:
		return "BoundaryReflect"
	case boundaryNone:
		return "boundaryNone"
	}
	return fmt.Sprintf("KDEBoundaryMethod(%d)", int(m))
}

// From fits a kernel density estimate to the sample s.
//
// It fails with ErrEmptySample if s has no values, with an
// *InputError if a value or weight is not finite or a weight is
// negative, and with ErrDegenerateSample if no explicit bandwidth is
// set and the sample has fewer than two distinct values (so no
// spread-based bandwidth exists). Setting k.Bandwidth lets a
// degenerate sample be fit anyway.
//
// The returned estimate holds its own copy of the sample.
func (k KDE) From(s Sample) (*KDEDist, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	// Compute bandwidth
	h := k.Bandwidth
	switch {
	case h < 0 || !isFinite(h):
		return nil, fmt.Errorf("%w: %v", ErrInvalidBandwidth, h)
	case h == 0:
		if s.Distinct() < 2 {
			return nil, ErrDegenerateSample
		}
		rule := k.BandwidthRule
		if rule == nil {
			rule = BandwidthSilverman
		}
		h = rule(s)
		if !(h > 0) || !isFinite(h) {
			return nil, fmt.Errorf("%w: bandwidth %v", ErrDegenerateSample, h)
		}
	}

	// Normalize boundaries
	bm := k.BoundaryMethod
	min, max := k.BoundaryMin, k.BoundaryMax
	if min == 0 && max == 0 {
		min, max = math.Inf(-1), math.Inf(1)
	}
	if math.IsInf(min, -1) && math.IsInf(max, 1) {
		bm = boundaryNone
	}

	c := s.Copy()
	return &KDEDist{
		kernel:  NormalDist{0, h},
		xs:      c.Xs,
		weights: c.Weights,
		total:   c.Weight(),
		bm:      bm,
		min:     min,
		max:     max,
	}, nil
}

// KDEDist is a fitted kernel density estimate. It implements Dist.
//
// A KDEDist is immutable once constructed, so it can be evaluated
// any number of times (and concurrently).
type KDEDist struct {
	kernel      NormalDist
	xs, weights []float64
	total       float64 // Total sample weight
	bm          KDEBoundaryMethod
	min, max    float64 // Support bounds
}

// Bandwidth returns the kernel bandwidth h of the estimate.
func (kde *KDEDist) Bandwidth() float64 {
	return kde.kernel.Sigma
}

// N returns the number of samples the estimate was fit to.
func (kde *KDEDist) N() int {
	return len(kde.xs)
}

// mix evaluates f at x - xᵢ for every sample xᵢ and returns the
// weighted average. Evaluating kernels shifted by kde.xs all at x is
// equivalent to evaluating one unshifted kernel at x - kde.xs.
func (kde *KDEDist) mix(f func(float64) float64, x float64) float64 {
	sum := 0.0
	if kde.weights == nil {
		for _, xi := range kde.xs {
			sum += f(x - xi)
		}
	} else {
		for i, xi := range kde.xs {
			sum += kde.weights[i] * f(x-xi)
		}
	}
	return sum / kde.total
}

func (kde *KDEDist) PDF(x float64) float64 {
	// Apply boundary
	if x < kde.min || x >= kde.max {
		return 0
	}

	y := func(x float64) float64 {
		return kde.mix(kde.kernel.PDF, x)
	}
	switch kde.bm {
	default:
		panic("unknown boundary correction method")
	case boundaryNone:
		return y(x)
	case BoundaryReflect:
		if math.IsInf(kde.max, 1) {
			return y(x) + y(2*kde.min-x)
		} else if math.IsInf(kde.min, -1) {
			return y(x) + y(2*kde.max-x)
		} else {
			d := 2 * (kde.max - kde.min)
			w := 2 * (x - kde.min)
			return series(func(n float64) float64 {
				// Points >= x
				return y(x+n*d) + y(x+n*d-w)
			}) + series(func(n float64) float64 {
				// Points < x
				return y(x-(n+1)*d+w) + y(x-(n+1)*d)
			})
		}
	}
}

func (kde *KDEDist) PDFEach(xs []float64) []float64 {
	res := make([]float64, len(xs))
	for i, x := range xs {
		res[i] = kde.PDF(x)
	}
	return res
}

func (kde *KDEDist) CDF(x float64) float64 {
	// Apply boundary
	if x < kde.min {
		return 0
	} else if x >= kde.max {
		return 1
	}

	y := func(x float64) float64 {
		return kde.mix(kde.kernel.CDF, x)
	}
	switch kde.bm {
	default:
		panic("unknown boundary correction method")
	case boundaryNone:
		return y(x)
	case BoundaryReflect:
		if math.IsInf(kde.max, 1) {
			return y(x) - y(2*kde.min-x)
		} else if math.IsInf(kde.min, -1) {
			return y(x) + (1 - y(2*kde.max-x))
		} else {
			d := 2 * (kde.max - kde.min)
			w := 2 * (x - kde.min)
			return series(func(n float64) float64 {
				// Windows >= x-w
				return y(x+n*d) - y(x+n*d-w)
			}) + series(func(n float64) float64 {
				// Windows < x-w
				return y(x-(n+1)*d) - y(x-(n+1)*d-w)
			})
		}
	}
}

func (kde *KDEDist) CDFEach(xs []float64) []float64 {
	res := make([]float64, len(xs))
	for i, x := range xs {
		res[i] = kde.CDF(x)
	}
	return res
}

// InvCDF returns the x at which CDF(x) is approximately p, found by
// bisection over the estimate's bounds.
func (kde *KDEDist) InvCDF(p float64) float64 {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return nan
	} else if p == 0 {
		return kde.min
	} else if p == 1 {
		return kde.max
	}

	low, high := kde.Bounds()
	low, high = kde.bracket(low, high, p, p)
	x, _ := bisect(func(x float64) float64 { return kde.CDF(x) - p }, low, high, 1e-9)
	return x
}

func (kde *KDEDist) InvCDFEach(ps []float64) []float64 {
	res := make([]float64, len(ps))
	for i, p := range ps {
		res[i] = kde.InvCDF(p)
	}
	return res
}

// bracket widens [lowX, highX] until CDF(lowX) <= lowY and
// CDF(highX) >= highY. Steps start at the larger of the interval width
// and the bandwidth and double, so they outgrow the spacing of
// floating-point values even far from zero.
func (kde *KDEDist) bracket(lowX, highX, lowY, highY float64) (float64, float64) {
	step := math.Max(highX-lowX, kde.kernel.Sigma)
	for kde.CDF(lowX) > lowY {
		lowX -= step
		step *= 2
	}
	step = math.Max(highX-lowX, kde.kernel.Sigma)
	for kde.CDF(highX) < highY {
		highX += step
		step *= 2
	}
	return lowX, highX
}

func (kde *KDEDist) Bounds() (low float64, high float64) {
	// Use the lowest and highest samples as starting points
	lowX, highX := Sample{Xs: kde.xs, Weights: kde.weights}.Bounds()

	// Find the end points that contain 99% of the CDF's weight.
	// Since bisect requires that the root be bracketed, start by
	// expanding our range if necessary.
	const (
		lowY      = 0.005
		highY     = 0.995
		tolerance = 0.001
	)
	lowX, highX = kde.bracket(lowX, highX, lowY, highY)
	low, _ = bisect(func(x float64) float64 { return kde.CDF(x) - lowY }, lowX, highX, tolerance)
	high, _ = bisect(func(x float64) float64 { return kde.CDF(x) - highY }, lowX, highX, tolerance)

	// Far from zero the bisection can collapse onto one
	// representable value; fall back to the bracket.
	if !(low < high) {
		low, high = lowX, highX
	}

	// Expand width by 20% to give some margins
	width := high - low
	low, high = low-0.1*width, high+0.1*width

	// Limit to bounds
	low, high = math.Max(low, kde.min), math.Min(high, kde.max)

	return
}
