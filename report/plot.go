// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/cbayes/go-cbayes/posterior"
	"github.com/cbayes/go-cbayes/stats"
)

// A Curve is a named density to plot.
type Curve struct {
	Name string
	Dist interface {
		stats.Density
		Bounds() (float64, float64)
	}
}

var markers = []byte{'*', 'o', '+', 'x', '#'}

// Curves returns the observed density, the prior push-forward, and,
// if it can be estimated, the posterior push-forward of res. The
// posterior estimate uses the same KDE options as the prior one.
func Curves(res *posterior.Result, obs stats.Dist, k stats.KDE) []Curve {
	curves := []Curve{
		{"observed", obs},
		{"prior push-forward", res.PushForward},
	}
	// A posterior with fewer than two distinct values has no
	// density estimate; leave it out of the plot.
	if post, err := k.From(stats.Sample{Xs: res.Q}); err == nil {
		curves = append(curves, Curve{"posterior push-forward", post})
	}
	return curves
}

// FprintDensities plots curves on a shared width×height character
// grid spanning the union of their bounds.
func FprintDensities(w io.Writer, width, height int, curves ...Curve) {
	if len(curves) == 0 || width < 2 || height < 1 {
		return
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range curves {
		l, h := c.Dist.Bounds()
		lo, hi = math.Min(lo, l), math.Max(hi, h)
	}
	xs := make([]float64, width)
	floats.Span(xs, lo, hi)

	ys := make([][]float64, len(curves))
	top := 0.0
	for i, c := range curves {
		ys[i] = c.Dist.PDFEach(xs)
		top = math.Max(top, floats.Max(ys[i]))
	}
	if top == 0 {
		top = 1
	}

	grid := make([][]byte, height)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", width))
	}
	for i := range curves {
		m := markers[i%len(markers)]
		for col, y := range ys[i] {
			r := height - 1 - int(math.Round(y/top*float64(height-1)))
			if r < 0 || r >= height {
				continue
			}
			grid[r][col] = m
		}
	}

	fmt.Fprintf(w, "%10.4g ┤%s\n", top, grid[0])
	for _, row := range grid[1:] {
		fmt.Fprintf(w, "%10s │%s\n", "", row)
	}
	fmt.Fprintf(w, "%10s └%s\n", "", strings.Repeat("─", width))
	fmt.Fprintf(w, "%10s  %-*.4g%*.4g\n", "", width/2, lo, width-width/2, hi)
	for i, c := range curves {
		fmt.Fprintf(w, "  %c %s\n", markers[i%len(markers)], c.Name)
	}
}
