// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// A QuantileInterval is a distribution-free confidence interval for a
// population quantile, given as a pair of order statistics of a
// sample of size N.
type QuantileInterval struct {
	Quantile float64
	N        int

	// Confidence is the achieved confidence level. It is at least
	// the requested level.
	Confidence float64

	// Lo and Hi are 1-based order statistics bounding the
	// interval: Xs[Lo-1] to Xs[Hi-1] of the sorted sample. Lo == 0
	// means the interval is unbounded below and Hi == N+1 that it
	// is unbounded above.
	Lo, Hi int
}

// quantileIntervalExactMax is the largest sample size for which
// QuantileCI sums binomial probabilities exactly. Larger samples use
// the normal approximation. Variable for testing.
var quantileIntervalExactMax = 30

// QuantileCI returns the narrowest interval of order statistics that
// contains the q'th quantile of the population with at least the given
// confidence, for a sample of size n.
func QuantileCI(n int, q, confidence float64) QuantileInterval {
	ci := QuantileInterval{Quantile: q, N: n}
	switch {
	case confidence >= 1 || n == 0:
		ci.Confidence, ci.Lo, ci.Hi = 1, 0, n+1
		return ci
	case q <= 0:
		ci.Confidence, ci.Lo, ci.Hi = 1, 0, 1
		return ci
	case q >= 1:
		ci.Confidence, ci.Lo, ci.Hi = 1, n, n+1
		return ci
	}

	// The number of sample values below the population quantile is
	// binomially distributed. Its k'th outcome is the gap between
	// order statistics k and k+1.
	var l, r int
	if n <= quantileIntervalExactMax {
		l, r, ci.Confidence = binomialBand(n, q, confidence)
	} else {
		l, r, ci.Confidence = normalBand(n, q, confidence)
	}
	ci.Lo, ci.Hi = max(l, 0), min(r, n+1)
	return ci
}

// binomialBand grows [l, r) outward from the lower mode of B(n, q),
// always taking the more probable neighbor, until it covers
// confidence.
func binomialBand(n int, q, confidence float64) (l, r int, got float64) {
	b := distuv.Binomial{N: float64(n), P: q}
	pmf := func(k int) float64 {
		if k < 0 || k > n {
			return 0
		}
		return b.Prob(float64(k))
	}

	x := min(max(int(math.Ceil(float64(n+1)*q))-1, 0), n)
	l, r = x, x+1
	got = pmf(x)
	lp, rp := pmf(l-1), pmf(r)
	for got < confidence && (lp > 0 || rp > 0) {
		if lp >= rp {
			got += lp
			l--
			lp = pmf(l - 1)
		} else {
			got += rp
			r++
			rp = pmf(r)
		}
	}
	return l, r, got
}

// normalBand finds the band of B(n, q) covering the central confidence
// mass of its normal approximation, with continuity correction.
func normalBand(n int, q, confidence float64) (l, r int, got float64) {
	norm := NormalDist{Mu: float64(n) * q, Sigma: math.Sqrt(float64(n) * q * (1 - q))}
	mass := func(l, r int) float64 {
		return norm.CDF(float64(r)-0.5) - norm.CDF(float64(l)-0.5)
	}

	lx := norm.InvCDF((1 - confidence) / 2)
	rx := 2*norm.Mu - lx
	// Outcome k covers [k-0.5, k+0.5]; round out to those edges.
	l = int(math.Floor(math.Floor(lx-0.5)+0.5)) + 1
	r = int(math.Floor(math.Ceil(rx-0.5)+0.5)) + 1
	got = mass(l, r)

	// Prefer the left-biased band if it still suffices.
	if biased := mass(l, r-1); biased >= confidence && biased < got {
		r, got = r-1, biased
	}
	if l <= 0 && r >= n+1 {
		got = 1
	}
	return l, r, got
}

// Bounds returns the interval in terms of values of s, which must be
// an unweighted sample of size ci.N. Unbounded ends are infinite.
func (ci QuantileInterval) Bounds(s Sample) (lo, hi float64) {
	if s.Weights != nil {
		panic("quantile interval of a weighted sample")
	}
	if len(s.Xs) != ci.N {
		panic("sample size differs from quantile interval")
	}
	if !s.Sorted {
		s = *s.Copy().Sort()
	}

	lo, hi = -inf, inf
	if ci.Lo >= 1 {
		lo = s.Xs[ci.Lo-1]
	}
	if ci.Hi <= len(s.Xs) {
		hi = s.Xs[ci.Hi-1]
	}
	return
}
