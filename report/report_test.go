// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
	"sigs.k8s.io/yaml"

	"github.com/cbayes/go-cbayes/posterior"
	"github.com/cbayes/go-cbayes/stats"
)

func testResult(t *testing.T) (*posterior.Result, stats.Dist) {
	t.Helper()
	r := rand.New(rand.NewSource(1))
	prior := stats.NormalDist{Mu: 0, Sigma: 1}
	q := make([]float64, 400)
	lam := mat.NewDense(len(q), 1, nil)
	for i := range q {
		q[i] = prior.Rand(r)
		lam.Set(i, 0, q[i]+1)
	}
	obs := stats.NormalDist{Mu: 0.5, Sigma: 0.5}
	res, err := posterior.Constructor{}.Construct(q, lam, obs, r)
	if err != nil {
		t.Fatal(err)
	}
	return res, obs
}

func testOutput(t *testing.T) (Output, *posterior.Result, stats.Dist) {
	t.Helper()
	res, obs := testResult(t)
	s, err := res.Summary()
	if err != nil {
		t.Fatal(err)
	}
	return NewOutput(res, s, posterior.SummarizeParams(res.Lambda)), res, obs
}

func TestNewOutput(t *testing.T) {
	out, res, _ := testOutput(t)
	if out.N != 400 || out.K != len(res.Q) {
		t.Errorf("want N=400 K=%d, got N=%d K=%d", len(res.Q), out.N, out.K)
	}
	if out.Bandwidth != res.PushForward.Bandwidth() {
		t.Errorf("want bandwidth %v, got %v", res.PushForward.Bandwidth(), out.Bandwidth)
	}
	if len(out.Params) != 1 {
		t.Fatalf("want 1 parameter summary, got %d", len(out.Params))
	}
	// Parameters are q+1, so their posterior mean tracks the QoI.
	if got, want := out.Params[0].Mean, out.QoI.Mean+1; got-want > 1e-9 || want-got > 1e-9 {
		t.Errorf("want parameter mean %v, got %v", want, got)
	}
	if p := out.Params[0]; p.MedianLo == nil || p.MedianHi == nil || *p.MedianLo > p.Median || *p.MedianHi < p.Median {
		t.Errorf("want a bounded median interval around %v, got %+v", p.Median, p)
	}
}

func TestWriteYAML(t *testing.T) {
	out, _, _ := testOutput(t)
	var buf bytes.Buffer
	if err := WriteYAML(&buf, out); err != nil {
		t.Fatal(err)
	}
	var got Output
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(out, got); diff != "" {
		t.Errorf("YAML output mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{"acceptRate:", "meanWeightedLogWeight:", "params:"} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("YAML output missing %q:\n%s", key, buf.String())
		}
	}
}

func TestFprintText(t *testing.T) {
	out, _, _ := testOutput(t)
	var buf bytes.Buffer
	FprintSummary(&buf, out)
	if err := FprintParams(&buf, out.Params); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, want := range []string{"accept rate", "posterior QoI mean", "mean r·log r", "median 95% CI"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	buf.Reset()
	if err := FprintParams(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("want no table for no parameters, got %q, %v", buf.String(), err)
	}
}

func TestFprintDensities(t *testing.T) {
	res, obs := testResult(t)
	curves := Curves(res, obs, stats.KDE{})
	if len(curves) != 3 {
		t.Fatalf("want observed, prior, and posterior curves, got %d", len(curves))
	}

	var buf bytes.Buffer
	const width, height = 60, 12
	FprintDensities(&buf, width, height, curves...)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if want := height + 2 + len(curves); len(lines) != want {
		t.Fatalf("want %d lines, got %d:\n%s", want, len(lines), buf.String())
	}
	for i, c := range curves {
		legend := lines[height+2+i]
		if !strings.Contains(legend, c.Name) || !strings.ContainsRune(legend, rune(markers[i])) {
			t.Errorf("legend line %q does not describe %q", legend, c.Name)
		}
	}
	// The tallest curve must reach the top row.
	if strings.TrimSpace(strings.SplitN(lines[0], "┤", 2)[1]) == "" {
		t.Errorf("top row is empty:\n%s", buf.String())
	}
}

func TestCurvesKDEOptions(t *testing.T) {
	res, obs := testResult(t)
	curves := Curves(res, obs, stats.KDE{Bandwidth: 0.25})
	if len(curves) != 3 {
		t.Fatalf("want 3 curves, got %d", len(curves))
	}
	post, ok := curves[2].Dist.(*stats.KDEDist)
	if !ok {
		t.Fatalf("want posterior curve to be a *stats.KDEDist, got %T", curves[2].Dist)
	}
	if got := post.Bandwidth(); got != 0.25 {
		t.Errorf("want posterior bandwidth 0.25, got %v", got)
	}

	// A degenerate posterior has no rule-based estimate.
	flat := &posterior.Result{Q: []float64{1, 1}, PushForward: res.PushForward}
	if got := len(Curves(flat, obs, stats.KDE{})); got != 2 {
		t.Errorf("want the posterior curve omitted, got %d curves", got)
	}
}
