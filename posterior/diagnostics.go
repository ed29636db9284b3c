// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package posterior

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cbayes/go-cbayes/rejection"
	"github.com/cbayes/go-cbayes/stats"
)

// Summary holds diagnostics for a posterior sample.
type Summary struct {
	// N is the number of prior samples (weights) and K the number
	// of accepted samples.
	N, K int

	// Mean and StdDev are the mean and population standard
	// deviation of the accepted QoI values.
	Mean, StdDev float64

	// MeanWeight is the mean importance weight over all N
	// samples. It estimates the integral of the posterior
	// density and should be close to 1.
	MeanWeight float64

	// MeanWeightedLogWeight is the mean of w log w over all N
	// samples, an estimate of the KL divergence of the posterior
	// push-forward from the prior push-forward. It is 0 when no
	// reweighting was needed. Zero weights contribute 0, the
	// limit of w log w as w → 0.
	MeanWeightedLogWeight float64

	// EffectiveSampleSize is (Σw)² / Σw², the number of equally
	// weighted samples the weighted sample is worth.
	EffectiveSampleSize float64
}

// Summarize computes diagnostics from the accepted QoI values and the
// importance weights of all prior samples.
func Summarize(posteriorQ, weights []float64) (Summary, error) {
	if len(posteriorQ) == 0 {
		return Summary{}, ErrEmptyPosterior
	}
	if err := rejection.Check(weights); err != nil {
		return Summary{}, err
	}

	s := stats.Sample{Xs: posteriorQ}
	var wlogw float64
	for _, w := range weights {
		if w > 0 {
			wlogw += w * math.Log(w)
		}
	}
	sum := floats.Sum(weights)
	n := float64(len(weights))
	return Summary{
		N:                     len(weights),
		K:                     len(posteriorQ),
		Mean:                  s.Mean(),
		StdDev:                s.PopStdDev(),
		MeanWeight:            sum / n,
		MeanWeightedLogWeight: wlogw / n,
		EffectiveSampleSize:   sum * sum / floats.Dot(weights, weights),
	}, nil
}

// ParamSummary summarizes one parameter dimension of a posterior.
type ParamSummary struct {
	Dim    int
	Mean   float64
	StdDev float64 // population

	// P05, Median, and P95 are empirical percentiles.
	P05, Median, P95 float64

	// MedianLo and MedianHi bound a distribution-free confidence
	// interval for the median at level MedianConfidence. Either is
	// infinite when there are too few samples to bound it.
	MedianLo, MedianHi float64
}

// MedianConfidence is the confidence level of ParamSummary's median
// interval.
const MedianConfidence = 0.95

// SummarizeParams summarizes each column of the parameter matrix lam.
// It returns nil if lam is nil.
func SummarizeParams(lam *mat.Dense) []ParamSummary {
	if lam == nil {
		return nil
	}
	n, d := lam.Dims()
	ci := stats.QuantileCI(n, 0.5, MedianConfidence)
	out := make([]ParamSummary, d)
	for j := range out {
		col := mat.Col(nil, j, lam)
		sort.Float64s(col)
		mean, std := stat.PopMeanStdDev(col, nil)
		lo, hi := ci.Bounds(stats.Sample{Xs: col, Sorted: true})
		out[j] = ParamSummary{
			Dim:    j,
			Mean:   mean,
			StdDev: std,
			P05:    stat.Quantile(0.05, stat.Empirical, col, nil),
			Median: stat.Quantile(0.5, stat.Empirical, col, nil),
			P95:    stat.Quantile(0.95, stat.Empirical, col, nil),

			MedianLo: lo,
			MedianHi: hi,
		}
	}
	return out
}
