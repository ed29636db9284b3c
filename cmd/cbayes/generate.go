// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cbayes/go-cbayes/dataset"
	"github.com/cbayes/go-cbayes/stats"
)

type generateOptions struct {
	out   string
	n     int
	dims  int
	mu    float64
	sigma float64
	seed  int64
}

func (o *generateOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.out, "out", "", "Path to write the sample set to.")
	fs.IntVar(&o.n, "n", 10000, "Number of prior samples.")
	fs.IntVar(&o.dims, "dims", 2, "Parameter dimension.")
	fs.Float64Var(&o.mu, "mu", 0, "Mean of the QoI.")
	fs.Float64Var(&o.sigma, "sigma", 1, "Standard deviation of the QoI.")
	fs.Int64Var(&o.seed, "seed", 1, "Seed for the prior sampler.")
}

func (o *generateOptions) validate() error {
	switch {
	case o.out == "":
		return fmt.Errorf("--out is required")
	case o.n < 1:
		return fmt.Errorf("--n must be positive, got %d", o.n)
	case o.dims < 1:
		return fmt.Errorf("--dims must be positive, got %d", o.dims)
	case !(o.sigma > 0):
		return fmt.Errorf("--sigma must be positive, got %v", o.sigma)
	}
	return nil
}

// newGenerateCmd writes a synthetic prior sample set: parameters are
// standard normal and the QoI is mu + sigma·Σλ/√dims, so the prior
// push-forward is N(mu, sigma).
func newGenerateCmd(fs afero.Fs, log *logrus.Entry) *cobra.Command {
	opts := generateOptions{}
	cmd := cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic linear-model sample set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			set := generate(opts)
			if err := dataset.Write(fs, opts.out, set); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"out": opts.out, "samples": set.N(), "dims": set.Dims()}).Info("Wrote sample set.")
			return nil
		},
	}
	opts.addFlags(cmd.Flags())
	return &cmd
}

func generate(o generateOptions) *dataset.SampleSet {
	r := rand.New(rand.NewSource(o.seed))
	q := make([]float64, o.n)
	lam := mat.NewDense(o.n, o.dims, nil)
	scale := o.sigma / math.Sqrt(float64(o.dims))
	for i := range q {
		row := lam.RawRowView(i)
		for j := range row {
			row[j] = stats.StdNormal.Rand(r)
		}
		q[i] = o.mu + scale*floats.Sum(row)
	}
	return &dataset.SampleSet{Q: q, Lambda: lam}
}
