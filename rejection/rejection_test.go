// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rejection

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// seqSource replays a fixed sequence of uniform draws.
type seqSource struct {
	us    []float64
	drawn int
}

func (s *seqSource) Float64() float64 {
	u := s.us[s.drawn]
	s.drawn++
	return u
}

func TestSelectRule(t *testing.T) {
	src := &seqSource{us: []float64{0.5, 0.5, 0, 0.99}}
	got, err := Select([]float64{2, 0.8, 0, 1.98}, src)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 3}, got); diff != "" {
		t.Errorf("accepted indices mismatch (-want +got):\n%s", diff)
	}
	if src.drawn != 4 {
		t.Errorf("want one draw per weight (4), got %d", src.drawn)
	}
}

func TestSelectOrdered(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		weights := make([]float64, 1+r.Intn(200))
		for i := range weights {
			weights[i] = r.ExpFloat64()
		}
		got, err := Select(weights, r)
		if err != nil {
			t.Fatal(err)
		}
		for j, i := range got {
			if i < 0 || i >= len(weights) {
				t.Fatalf("index %d out of range [0, %d)", i, len(weights))
			}
			if j > 0 && got[j-1] >= i {
				t.Fatalf("indices not strictly increasing: %v", got)
			}
		}
	}
}

func TestSelectConstant(t *testing.T) {
	weights := []float64{3, 3, 3, 3, 3, 3, 3, 3}
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		got, err := Select(weights, r)
		if err != nil {
			t.Fatal(err)
		}
		if rate := AcceptRate(got, len(weights)); rate != 1 {
			t.Fatalf("want every sample accepted, got rate %v", rate)
		}
	}
}

func TestSelectSinglePositive(t *testing.T) {
	weights := make([]float64, 50)
	weights[17] = 1e-300
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		got, err := Select(weights, r)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int{17}, got); diff != "" {
			t.Fatalf("accepted indices mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestSelectProbability(t *testing.T) {
	weights := []float64{4, 2, 1, 0.4}
	counts := make([]int, len(weights))
	const trials = 20000
	r := rand.New(rand.NewSource(3))
	for trial := 0; trial < trials; trial++ {
		got, err := Select(weights, r)
		if err != nil {
			t.Fatal(err)
		}
		for _, i := range got {
			counts[i]++
		}
	}
	for i, w := range weights {
		want := w / 4
		got := float64(counts[i]) / trials
		if math.Abs(want-got) > 0.02 {
			t.Errorf("index %d: want acceptance probability %v, got %v", i, want, got)
		}
	}
}

func TestSelectReproducible(t *testing.T) {
	weights := []float64{0.1, 0.9, 0.5, 0.3, 0.7, 0.2, 1.0, 0.6}
	a, err := Select(weights, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Select(weights, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different selections (-first +second):\n%s", diff)
	}
}

func TestSelectErrors(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, tc := range []struct {
		name    string
		weights []float64
		want    error
		index   int
	}{
		{"empty", nil, ErrEmptyWeights, -1},
		{"all zero", []float64{0, 0, 0}, ErrAllWeightsZero, -1},
		{"negative", []float64{1, -0.5, 2}, ErrInvalidWeight, 1},
		{"nan", []float64{1, 2, math.NaN()}, ErrInvalidWeight, 2},
		{"inf", []float64{math.Inf(1), 2}, ErrInvalidWeight, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Select(tc.weights, r)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
			if got != nil {
				t.Errorf("want no selection on error, got %v", got)
			}
			var we *InvalidWeightError
			if tc.index >= 0 && (!errors.As(err, &we) || we.Index != tc.index) {
				t.Errorf("want *InvalidWeightError at index %d, got %v", tc.index, err)
			}
		})
	}
}
