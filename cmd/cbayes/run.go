// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cbayes/go-cbayes/config"
	"github.com/cbayes/go-cbayes/dataset"
	"github.com/cbayes/go-cbayes/posterior"
	"github.com/cbayes/go-cbayes/report"
)

const (
	outputText = "text"
	outputYAML = "yaml"

	plotWidth, plotHeight = 64, 16
)

type runOptions struct {
	config string
	data   string
	seed   int64
	output string
	plot   bool

	seedSet bool
}

func (o *runOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "Path to the run configuration.")
	fs.StringVar(&o.data, "data", "", "Path to the sample set. Overrides the configured data.")
	fs.Int64Var(&o.seed, "seed", 0, "Seed for the rejection sampler. Overrides the configured seed.")
	fs.StringVarP(&o.output, "output", "o", outputText, "Output format: text or yaml.")
	fs.BoolVar(&o.plot, "plot", true, "Plot the observed and push-forward densities in text output.")
}

func (o *runOptions) validate() error {
	if o.config == "" {
		return fmt.Errorf("--config is required")
	}
	switch o.output {
	case outputText, outputYAML:
	default:
		return fmt.Errorf("--output must be %s or %s, got %q", outputText, outputYAML, o.output)
	}
	return nil
}

func (o *runOptions) overrides() []config.Override {
	var ovs []config.Override
	if o.data != "" {
		ovs = append(ovs, func(c *config.Config) { c.Data = o.data })
	}
	if o.seedSet {
		ovs = append(ovs, func(c *config.Config) { c.Seed = o.seed })
	}
	return ovs
}

func newRunCmd(fs afero.Fs, out io.Writer, log *logrus.Entry) *cobra.Command {
	opts := runOptions{}
	cmd := cobra.Command{
		Use:   "run",
		Short: "Construct a posterior from prior samples and an observed density",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			if err := opts.validate(); err != nil {
				return err
			}
			return run(fs, out, log, opts)
		},
	}
	opts.addFlags(cmd.Flags())
	return &cmd
}

func run(fs afero.Fs, out io.Writer, log *logrus.Entry, opts runOptions) error {
	cfg, err := config.Load(fs, opts.config, opts.overrides()...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log = log.WithFields(logrus.Fields{"data": cfg.Data, "seed": cfg.Seed})

	set, err := dataset.Load(fs, cfg.Data, cfg.QoIColumn)
	if err != nil {
		return fmt.Errorf("load samples: %w", err)
	}
	log.WithFields(logrus.Fields{"samples": set.N(), "dims": set.Dims()}).Debug("Loaded prior samples.")

	c, err := cfg.Constructor()
	if err != nil {
		return fmt.Errorf("configure posterior: %w", err)
	}
	obs := cfg.ObservedDensity()
	res, err := c.Construct(set.Q, set.Lambda, obs, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return fmt.Errorf("construct posterior: %w", err)
	}
	log.WithFields(logrus.Fields{
		"accepted":   len(res.Accepted),
		"acceptRate": res.AcceptRate,
		"bandwidth":  res.PushForward.Bandwidth(),
	}).Info("Constructed posterior.")

	s, err := res.Summary()
	if err != nil {
		return fmt.Errorf("summarize posterior: %w", err)
	}
	if s.EffectiveSampleSize < float64(s.N)/100 {
		log.WithField("ess", s.EffectiveSampleSize).Warn("Importance weights are concentrated on few samples.")
	}
	o := report.NewOutput(res, s, posterior.SummarizeParams(res.Lambda))

	// Render fully before writing so a failure leaves out untouched.
	var buf bytes.Buffer
	switch opts.output {
	case outputYAML:
		if err := report.WriteYAML(&buf, o); err != nil {
			return err
		}
	default:
		report.FprintSummary(&buf, o)
		if len(o.Params) > 0 {
			fmt.Fprintln(&buf)
			if err := report.FprintParams(&buf, o.Params); err != nil {
				return err
			}
		}
		if opts.plot {
			fmt.Fprintln(&buf)
			report.FprintDensities(&buf, plotWidth, plotHeight, report.Curves(res, obs, c.KDE)...)
		}
	}
	_, err = buf.WriteTo(out)
	return err
}
