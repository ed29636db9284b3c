// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package posterior computes consistent Bayesian posteriors by
// rejection sampling a set of prior samples.
//
// Given prior samples λᵢ, their quantities of interest qᵢ = Q(λᵢ),
// and an observed density π_obs over q, each sample is weighted by
//
//	rᵢ = π_obs(qᵢ) / π̂_pf(qᵢ)
//
// where π̂_pf is a kernel density estimate of the push-forward of the
// prior through Q. Accepting sample i with probability rᵢ / max(r)
// yields samples whose push-forward matches π_obs. The prior density
// itself is never needed: it cancels out of the ratio.
package posterior // import "github.com/cbayes/go-cbayes/posterior"

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/cbayes/go-cbayes/rejection"
	"github.com/cbayes/go-cbayes/stats"
)

// ZeroDensityPolicy determines how a positive observed density over a
// zero push-forward density is weighted.
type ZeroDensityPolicy int

const (
	// ZeroDensityFail fails the construction with a
	// *DivisionByZeroError.
	ZeroDensityFail ZeroDensityPolicy = iota

	// ZeroDensityClip gives the sample the largest finite weight,
	// so it is always accepted.
	ZeroDensityClip
)

func (p ZeroDensityPolicy) String() string {
	switch p {
	case ZeroDensityFail:
		return "fail"
	case ZeroDensityClip:
		return "clip"
	}
	return fmt.Sprintf("ZeroDensityPolicy(%d)", int(p))
}

// ParseZeroDensityPolicy parses the String form of a policy.
func ParseZeroDensityPolicy(s string) (ZeroDensityPolicy, error) {
	switch strings.ToLower(s) {
	case "fail":
		return ZeroDensityFail, nil
	case "clip":
		return ZeroDensityClip, nil
	}
	return 0, fmt.Errorf("unknown zero density policy %q (want fail or clip)", s)
}

// Constructor holds the options for building a posterior. The zero
// value uses a default KDE and fails on zero push-forward density.
type Constructor struct {
	// KDE configures the push-forward density estimate.
	KDE stats.KDE

	// ZeroDensity is the policy for samples whose push-forward
	// density is zero.
	ZeroDensity ZeroDensityPolicy
}

// Result is a posterior sample.
type Result struct {
	// Q holds the accepted QoI values.
	Q []float64

	// Lambda holds the accepted parameter rows (K×D), or nil if
	// no parameters were given.
	Lambda *mat.Dense

	// Accepted holds the indices into the prior sample of the
	// accepted samples, in increasing order.
	Accepted []int

	// Weights holds the importance weight of every prior sample.
	Weights []float64

	// AcceptRate is len(Accepted) / len(Weights).
	AcceptRate float64

	// PushForward is the density estimate of the prior
	// push-forward.
	PushForward *stats.KDEDist
}

// Summary summarizes r. See Summarize.
func (r *Result) Summary() (Summary, error) {
	return Summarize(r.Q, r.Weights)
}

// Construct builds a posterior from prior QoI samples q, their
// parameters lam (N×D, or nil), and the observed density obs.
//
// rng supplies the uniform draws for the rejection step; one value is
// drawn per sample in order, so a seeded rng gives a reproducible
// result. On error no partial result is returned.
func (c Constructor) Construct(q []float64, lam *mat.Dense, obs stats.Density, rng rejection.Source) (*Result, error) {
	if len(q) == 0 {
		return nil, stats.ErrEmptySample
	}
	if lam != nil {
		if r, _ := lam.Dims(); r != len(q) {
			return nil, &LengthMismatchError{Samples: len(q), Params: r}
		}
	}
	if obs == nil {
		return nil, fmt.Errorf("%w: no observed density", ErrInvalidDensity)
	}

	pf, err := c.KDE.From(stats.Sample{Xs: q})
	if err != nil {
		return nil, fmt.Errorf("estimating push-forward density: %w", err)
	}
	weights, err := Weights(q, obs, pf, c.ZeroDensity)
	if err != nil {
		return nil, err
	}
	accepted, err := rejection.Select(weights, rng)
	if err != nil {
		return nil, err
	}

	return &Result{
		Q:           Gather(q, accepted),
		Lambda:      GatherRows(lam, accepted),
		Accepted:    accepted,
		Weights:     weights,
		AcceptRate:  rejection.AcceptRate(accepted, len(q)),
		PushForward: pf,
	}, nil
}

// Weights returns the importance weight obs(q[i]) / pushForward(q[i])
// of every sample.
//
// Where both densities are zero the weight is 0. Where only the
// push-forward density is zero (or so small the ratio overflows), the
// weight is decided by policy.
func Weights(q []float64, obs, pushForward stats.Density, policy ZeroDensityPolicy) ([]float64, error) {
	obsQ := obs.PDFEach(q)
	pfQ := pushForward.PDFEach(q)
	if len(obsQ) != len(q) || len(pfQ) != len(q) {
		return nil, fmt.Errorf("%w: %d and %d values for %d points", ErrInvalidDensity, len(obsQ), len(pfQ), len(q))
	}

	weights := make([]float64, len(q))
	var unbounded []int
	for i := range q {
		o, p := obsQ[i], pfQ[i]
		if !validDensity(o) {
			return nil, &InvalidDensityError{Density: "observed", Index: i, Q: q[i], Value: o}
		}
		if !validDensity(p) {
			return nil, &InvalidDensityError{Density: "push-forward", Index: i, Q: q[i], Value: p}
		}
		if o == 0 {
			continue
		}
		if w := o / p; p > 0 && !math.IsInf(w, 1) {
			weights[i] = w
			continue
		}
		if policy != ZeroDensityClip {
			return nil, &DivisionByZeroError{Index: i, Q: q[i], Observed: o}
		}
		unbounded = append(unbounded, i)
	}

	if len(unbounded) > 0 {
		// Clipped samples share the largest finite weight, so
		// they are always accepted.
		clip := 0.0
		for _, w := range weights {
			clip = math.Max(clip, w)
		}
		if clip == 0 {
			clip = 1
		}
		for _, i := range unbounded {
			weights[i] = clip
		}
	}
	return weights, nil
}

func validDensity(x float64) bool {
	return x >= 0 && !math.IsInf(x, 0)
}

// Gather returns xs[i] for each i in indices.
func Gather(xs []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for k, i := range indices {
		out[k] = xs[i]
	}
	return out
}

// GatherRows returns a matrix of the rows of m at indices, in order.
// It returns nil if m is nil or indices is empty.
func GatherRows(m *mat.Dense, indices []int) *mat.Dense {
	if m == nil || len(indices) == 0 {
		return nil
	}
	_, d := m.Dims()
	out := mat.NewDense(len(indices), d, nil)
	for k, i := range indices {
		out.SetRow(k, m.RawRowView(i))
	}
	return out
}
