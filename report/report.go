// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders posterior results as text and YAML.
package report // import "github.com/cbayes/go-cbayes/report"

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/cbayes/go-cbayes/posterior"
)

// Output is the machine-readable form of a run.
type Output struct {
	N          int                `json:"n"`
	K          int                `json:"k"`
	AcceptRate float64            `json:"acceptRate"`
	Bandwidth  float64            `json:"bandwidth"`
	QoI        QoISummary         `json:"qoi"`
	Params     []ParamSummaryJSON `json:"params,omitempty"`

	// Accepted holds the accepted sample indices.
	Accepted []int `json:"accepted,omitempty"`
}

// QoISummary is the YAML form of posterior.Summary.
type QoISummary struct {
	Mean                  float64 `json:"mean"`
	StdDev                float64 `json:"stdDev"`
	MeanWeight            float64 `json:"meanWeight"`
	MeanWeightedLogWeight float64 `json:"meanWeightedLogWeight"`
	EffectiveSampleSize   float64 `json:"effectiveSampleSize"`
}

// ParamSummaryJSON is the YAML form of posterior.ParamSummary.
type ParamSummaryJSON struct {
	Dim    int     `json:"dim"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	P05    float64 `json:"p05"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`

	// MedianLo and MedianHi are omitted when unbounded.
	MedianLo *float64 `json:"medianLo,omitempty"`
	MedianHi *float64 `json:"medianHi,omitempty"`
}

func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return &x
}

// NewOutput collects a result and its diagnostics into an Output.
func NewOutput(res *posterior.Result, s posterior.Summary, params []posterior.ParamSummary) Output {
	out := Output{
		N:          s.N,
		K:          s.K,
		AcceptRate: res.AcceptRate,
		Bandwidth:  res.PushForward.Bandwidth(),
		QoI: QoISummary{
			Mean:                  s.Mean,
			StdDev:                s.StdDev,
			MeanWeight:            s.MeanWeight,
			MeanWeightedLogWeight: s.MeanWeightedLogWeight,
			EffectiveSampleSize:   s.EffectiveSampleSize,
		},
		Accepted: res.Accepted,
	}
	for _, p := range params {
		out.Params = append(out.Params, ParamSummaryJSON{
			Dim:      p.Dim,
			Mean:     p.Mean,
			StdDev:   p.StdDev,
			P05:      p.P05,
			Median:   p.Median,
			P95:      p.P95,
			MedianLo: finite(p.MedianLo),
			MedianHi: finite(p.MedianHi),
		})
	}
	return out
}

// WriteYAML writes out as YAML.
func WriteYAML(w io.Writer, out Output) error {
	raw, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = w.Write(raw)
	return err
}

// FprintSummary prints the headline numbers of a run.
func FprintSummary(w io.Writer, out Output) {
	fmt.Fprintf(w, "N %d  accepted %d  accept rate %.4g  bandwidth %.4g\n", out.N, out.K, out.AcceptRate, out.Bandwidth)
	q := out.QoI
	fmt.Fprintf(w, "posterior QoI mean %.6g  std dev %.6g\n", q.Mean, q.StdDev)
	fmt.Fprintf(w, "mean r %.6g  mean r·log r %.6g  ESS %.6g\n", q.MeanWeight, q.MeanWeightedLogWeight, q.EffectiveSampleSize)
}

func bound(x *float64, unbounded string) string {
	if x == nil {
		return unbounded
	}
	return fmt.Sprintf("%.6g", *x)
}

// FprintParams prints a table of per-dimension posterior parameter
// summaries.
func FprintParams(w io.Writer, params []ParamSummaryJSON) error {
	if len(params) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "dim\tmean\tstd dev\t5%%ile\tmedian\t95%%ile\tmedian %.0f%% CI\t\n", 100*posterior.MedianConfidence)
	for _, p := range params {
		fmt.Fprintf(tw, "%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t[%s, %s]\t\n", p.Dim, p.Mean, p.StdDev, p.P05, p.Median, p.P95, bound(p.MedianLo, "-inf"), bound(p.MedianHi, "+inf"))
	}
	return tw.Flush()
}
