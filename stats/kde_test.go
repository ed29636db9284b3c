// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

func normalSample(r *rand.Rand, d NormalDist, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = d.Rand(r)
	}
	return xs
}

// integral returns the trapezoidal integral of f over [lo, hi].
func integral(f func([]float64) []float64, lo, hi float64, n int) float64 {
	xs := make([]float64, n)
	floats.Span(xs, lo, hi)
	return integrate.Trapezoidal(xs, f(xs))
}

func TestKDEPeak(t *testing.T) {
	truth := NormalDist{Mu: 0.7, Sigma: 0.01}
	s := Sample{Xs: normalSample(rand.New(rand.NewSource(1)), truth, 10000)}

	kde, err := KDE{}.From(s)
	if err != nil {
		t.Fatal(err)
	}
	peak := truth.PDF(truth.Mu)
	got := kde.PDF(s.Mean())
	if math.Abs(got-peak)/peak > 0.1 {
		t.Errorf("want KDE peak ≅ %v, got %v", peak, got)
	}
}

func TestKDEIntegratesToOne(t *testing.T) {
	s := Sample{Xs: []float64{1, 2, 2.5, 3, 4, 10}}
	kde, err := KDE{}.From(s)
	if err != nil {
		t.Fatal(err)
	}
	h := kde.Bandwidth()
	got := integral(kde.PDFEach, 1-10*h, 10+10*h, 20001)
	if math.Abs(got-1) > 1e-3 {
		t.Errorf("want ∫KDE = 1, got %v", got)
	}

	lo, hi := kde.Bounds()
	if cdf := kde.CDF(hi) - kde.CDF(lo); cdf < 0.99 {
		t.Errorf("want Bounds() to hold ≥99%% of the weight, got %v on [%v, %v]", cdf, lo, hi)
	}
}

func TestKDEEvaluateIsPure(t *testing.T) {
	xs := []float64{0.1, 0.4, 0.45, 0.5, 0.9}
	kde, err := KDE{}.From(Sample{Xs: xs})
	if err != nil {
		t.Fatal(err)
	}
	pts := []float64{-1, 0, 0.3, 0.45, 1, 2}
	first := kde.PDFEach(pts)
	second := kde.PDFEach(pts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated evaluation differs (-first +second):\n%s", diff)
	}

	// The fitted model must not alias the caller's slice.
	xs[0] = 100
	if diff := cmp.Diff(first, kde.PDFEach(pts)); diff != "" {
		t.Errorf("evaluation changed after input mutation (-before +after):\n%s", diff)
	}
	for i, y := range first {
		if y < 0 {
			t.Errorf("PDF(%v) = %v < 0", pts[i], y)
		}
	}
}

func TestKDEBandwidth(t *testing.T) {
	s := Sample{Xs: []float64{1, 2, 3, 4, 5}}
	want := 0.9 * (2 / 1.34) * math.Pow(5, -0.2)
	if got := BandwidthSilverman(s); !aeq(want, got) {
		t.Errorf("want Silverman bandwidth %v, got %v", want, got)
	}
	kde, err := KDE{}.From(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := kde.Bandwidth(); !aeq(want, got) {
		t.Errorf("want default bandwidth %v, got %v", want, got)
	}

	// Zero IQR falls back to the standard deviation.
	s = Sample{Xs: []float64{1, 1, 1, 1, 5}}
	want = 0.9 * math.Sqrt(3.2) * math.Pow(5, -0.2)
	if got := BandwidthSilverman(s); !aeq(want, got) {
		t.Errorf("want zero-IQR Silverman bandwidth %v, got %v", want, got)
	}

	s = Sample{Xs: []float64{1, 2, 3, 4, 5}}
	want = 1.06 * (2 / 1.349) * math.Pow(5, -0.2)
	kde, err = KDE{BandwidthRule: BandwidthScott}.From(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := kde.Bandwidth(); !aeq(want, got) {
		t.Errorf("want Scott bandwidth %v, got %v", want, got)
	}
}

func TestKDEErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		kde  KDE
		s    Sample
		want error
	}{
		{"empty", KDE{}, Sample{}, ErrEmptySample},
		{"nan", KDE{}, Sample{Xs: []float64{1, nan, 2}}, ErrNonFinite},
		{"inf", KDE{}, Sample{Xs: []float64{1, 2, inf}}, ErrNonFinite},
		{"single", KDE{}, Sample{Xs: []float64{1}}, ErrDegenerateSample},
		{"identical", KDE{}, Sample{Xs: []float64{3, 3, 3, 3}}, ErrDegenerateSample},
		{"weights length", KDE{}, Sample{Xs: []float64{1, 2}, Weights: []float64{1}}, ErrWeightsLength},
		{"negative weight", KDE{}, Sample{Xs: []float64{1, 2}, Weights: []float64{1, -1}}, ErrNegativeWeight},
		{"negative bandwidth", KDE{Bandwidth: -1}, Sample{Xs: []float64{1, 2}}, ErrInvalidBandwidth},
	} {
		t.Run(tc.name, func(t *testing.T) {
			kde, err := tc.kde.From(tc.s)
			if !errors.Is(err, tc.want) {
				t.Errorf("want %v, got %v", tc.want, err)
			}
			if kde != nil {
				t.Errorf("want nil estimate on error, got %v", kde)
			}
		})
	}

	_, err := KDE{}.From(Sample{Xs: []float64{1, nan, 2}})
	var ie *InputError
	if !errors.As(err, &ie) || ie.Index != 1 {
		t.Errorf("want *InputError at index 1, got %v", err)
	}
}

func TestKDEExplicitBandwidth(t *testing.T) {
	// An explicit bandwidth makes a degenerate sample usable.
	kde, err := KDE{Bandwidth: 0.5}.From(Sample{Xs: []float64{3, 3, 3}})
	if err != nil {
		t.Fatal(err)
	}
	testFunc(t, "PDF", kde.PDF, map[float64]float64{
		3:   NormalDist{3, 0.5}.PDF(3),
		3.5: NormalDist{3, 0.5}.PDF(3.5),
	})
	testFunc(t, "CDF", kde.CDF, map[float64]float64{
		3: 0.5,
	})
}

func TestKDEReflect(t *testing.T) {
	s := Sample{Xs: []float64{0.05, 0.1, 0.2, 0.3, 0.6}}
	kde, err := KDE{Bandwidth: 0.1, BoundaryMin: 0, BoundaryMax: math.Inf(1)}.From(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := kde.PDF(-0.01); got != 0 {
		t.Errorf("want PDF outside support = 0, got %v", got)
	}
	if got := kde.CDF(-0.01); got != 0 {
		t.Errorf("want CDF outside support = 0, got %v", got)
	}
	if got := integral(kde.PDFEach, 0, 2, 20001); math.Abs(got-1) > 1e-3 {
		t.Errorf("want ∫KDE = 1 on [0, inf), got %v", got)
	}

	kde, err = KDE{Bandwidth: 0.1, BoundaryMin: 0, BoundaryMax: 1}.From(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := integral(kde.PDFEach, 0, 1-1e-9, 20001); math.Abs(got-1) > 1e-3 {
		t.Errorf("want ∫KDE = 1 on [0, 1), got %v", got)
	}
	if got := kde.CDF(1); got != 1 {
		t.Errorf("want CDF(max) = 1, got %v", got)
	}
}

func TestKDEInvCDF(t *testing.T) {
	kde, err := KDE{}.From(Sample{Xs: []float64{-2, -1, 0, 0.5, 1, 3}})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []float64{0.01, 0.25, 0.5, 0.9} {
		x := kde.InvCDF(p)
		if got := kde.CDF(x); math.Abs(got-p) > 1e-6 {
			t.Errorf("want CDF(InvCDF(%v)) = %v, got %v", p, p, got)
		}
	}
	if got := kde.InvCDF(2); !math.IsNaN(got) {
		t.Errorf("want InvCDF(2) = NaN, got %v", got)
	}
}

func TestKDEBoundsFarFromZero(t *testing.T) {
	// Beyond 2^53 a step of 1 no longer changes a float64, so the
	// range must grow by more than that to bracket the CDF.
	for _, x := range []float64{0, 1e17, -1e17} {
		kde, err := KDE{Bandwidth: 1}.From(Sample{Xs: []float64{x, x, x}})
		if err != nil {
			t.Fatal(err)
		}
		low, high := kde.Bounds()
		if !(low < high && low <= x && x <= high) {
			t.Errorf("want non-empty Bounds around %v, got [%v, %v]", x, low, high)
		}
		if got := kde.InvCDF(0.5); math.Abs(got-x) > math.Max(2, math.Abs(x)*1e-15) {
			t.Errorf("want InvCDF(0.5) ≅ %v, got %v", x, got)
		}
	}
}
