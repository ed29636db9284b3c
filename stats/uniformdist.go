// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// UniformDist is a continuous uniform distribution on [Min, Max).
type UniformDist struct {
	Min, Max float64
}

func (u UniformDist) dist() distuv.Uniform {
	return distuv.Uniform{Min: u.Min, Max: u.Max}
}

func (u UniformDist) PDF(x float64) float64 {
	if x < u.Min || x >= u.Max {
		return 0
	}
	return u.dist().Prob(x)
}

func (u UniformDist) PDFEach(xs []float64) []float64 {
	res := make([]float64, len(xs))
	for i, x := range xs {
		res[i] = u.PDF(x)
	}
	return res
}

func (u UniformDist) CDF(x float64) float64 {
	return u.dist().CDF(x)
}

func (u UniformDist) CDFEach(xs []float64) []float64 {
	res := make([]float64, len(xs))
	d := u.dist()
	for i, x := range xs {
		res[i] = d.CDF(x)
	}
	return res
}

func (u UniformDist) InvCDF(p float64) float64 {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return nan
	}
	return u.dist().Quantile(p)
}

func (u UniformDist) InvCDFEach(ps []float64) []float64 {
	res := make([]float64, len(ps))
	for i, p := range ps {
		res[i] = u.InvCDF(p)
	}
	return res
}

// Rand returns a random value drawn from u using r. If r is nil, it
// uses the global source.
func (u UniformDist) Rand(r *rand.Rand) float64 {
	var x float64
	if r == nil {
		x = rand.Float64()
	} else {
		x = r.Float64()
	}
	return u.Min + x*(u.Max-u.Min)
}

func (u UniformDist) Bounds() (float64, float64) {
	return u.Min, u.Max
}
