// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cbayes constructs consistent Bayesian posteriors from prior samples
// and an observed QoI density.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.NewEntry(logrus.StandardLogger())
	cmd := newRootCmd(afero.NewOsFs(), os.Stdout, log)
	if err := cmd.Execute(); err != nil {
		log.WithError(err).Fatal("cbayes failed")
	}
}

func newRootCmd(fs afero.Fs, out io.Writer, log *logrus.Entry) *cobra.Command {
	var logLevel string
	cmd := cobra.Command{
		Use:   "cbayes",
		Short: "Consistent Bayesian inversion by rejection sampling",
		Long: `Consistent Bayesian inversion by rejection sampling.

Example:
$ cbayes generate --out prior.yaml --n 10000 --dims 2
$ cbayes run --config run.yaml --data prior.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			log.Logger.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Level at which to log output.")

	cmd.AddCommand(newRunCmd(fs, out, log))
	cmd.AddCommand(newGenerateCmd(fs, log))
	return &cmd
}
