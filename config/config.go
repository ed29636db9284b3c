// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config defines the run configuration of an inversion: where
// the prior samples live, the observed density, and the density
// estimation options.
package config // import "github.com/cbayes/go-cbayes/config"

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/afero"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/yaml"

	"github.com/cbayes/go-cbayes/posterior"
	"github.com/cbayes/go-cbayes/stats"
)

const (
	DistributionNormal  = "normal"
	DistributionUniform = "uniform"

	RuleSilverman = "silverman"
	RuleScott     = "scott"
)

// Config is a run configuration.
type Config struct {
	// Data is the path of the sample set file.
	Data string `json:"data"`

	// QoIColumn selects the QoI column of the data file.
	QoIColumn int `json:"qoiColumn,omitempty"`

	// Seed seeds the rejection sampler.
	Seed int64 `json:"seed,omitempty"`

	Observed Observed `json:"observed"`
	KDE      KDE      `json:"kde,omitempty"`

	// ZeroDensity is "fail" or "clip"; see posterior.ZeroDensityPolicy.
	ZeroDensity string `json:"zeroDensity,omitempty"`
}

// Observed describes the observed QoI density.
type Observed struct {
	// Distribution is "normal" (Mu, Sigma) or "uniform" (Min, Max).
	Distribution string  `json:"distribution,omitempty"`
	Mu           float64 `json:"mu,omitempty"`
	Sigma        float64 `json:"sigma,omitempty"`
	Min          float64 `json:"min,omitempty"`
	Max          float64 `json:"max,omitempty"`
}

// KDE configures the push-forward density estimate.
type KDE struct {
	// Bandwidth fixes the bandwidth. Zero selects it with Rule.
	Bandwidth float64 `json:"bandwidth,omitempty"`
	Rule      string  `json:"rule,omitempty"`

	// BoundaryMin and BoundaryMax bound the support of the QoI.
	// When either is set the estimate is reflected at the bounds;
	// an unset bound is infinite.
	BoundaryMin *float64 `json:"boundaryMin,omitempty"`
	BoundaryMax *float64 `json:"boundaryMax,omitempty"`
}

// support returns the configured QoI support and whether it is
// bounded at all.
func (k KDE) support() (min, max float64, bounded bool) {
	min, max = math.Inf(-1), math.Inf(1)
	if k.BoundaryMin != nil {
		min, bounded = *k.BoundaryMin, true
	}
	if k.BoundaryMax != nil {
		max, bounded = *k.BoundaryMax, true
	}
	return min, max, bounded
}

// Default returns the configuration used for unset fields.
func Default() Config {
	return Config{
		Seed:        1,
		Observed:    Observed{Distribution: DistributionNormal},
		KDE:         KDE{Rule: RuleSilverman},
		ZeroDensity: posterior.ZeroDensityFail.String(),
	}
}

// An Override adjusts a loaded configuration before it is validated.
type Override func(*Config)

// Load reads the configuration at path, applies overrides in order, and
// validates the result.
func Load(fs afero.Fs, path string, overrides ...Override) (*Config, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	c := Default()
	if err := yaml.UnmarshalStrict(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}
	for _, o := range overrides {
		o(&c)
	}
	c.defaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &c, nil
}

// defaults fills in fields that were explicitly emptied.
func (c *Config) defaults() {
	d := Default()
	if c.Observed.Distribution == "" {
		c.Observed.Distribution = d.Observed.Distribution
	}
	if c.KDE.Rule == "" {
		c.KDE.Rule = d.KDE.Rule
	}
	if c.ZeroDensity == "" {
		c.ZeroDensity = d.ZeroDensity
	}
}

// Validate reports every problem with c.
func (c *Config) Validate() error {
	var errs []error
	if c.Data == "" {
		errs = append(errs, errors.New("data must be set"))
	}
	if c.QoIColumn < 0 {
		errs = append(errs, fmt.Errorf("qoiColumn must be non-negative, got %d", c.QoIColumn))
	}
	errs = append(errs, c.Observed.validate()...)
	if c.KDE.Bandwidth < 0 || math.IsNaN(c.KDE.Bandwidth) || math.IsInf(c.KDE.Bandwidth, 0) {
		errs = append(errs, fmt.Errorf("kde.bandwidth must be a non-negative number, got %v", c.KDE.Bandwidth))
	}
	if min, max, bounded := c.KDE.support(); bounded && !(min < max) {
		errs = append(errs, fmt.Errorf("kde.boundaryMin must be less than kde.boundaryMax, got [%v, %v)", min, max))
	}
	if _, err := c.bandwidthRule(); err != nil {
		errs = append(errs, err)
	}
	if _, err := posterior.ParseZeroDensityPolicy(c.ZeroDensity); err != nil {
		errs = append(errs, fmt.Errorf("zeroDensity: %w", err))
	}
	return utilerrors.NewAggregate(errs)
}

func (o Observed) validate() []error {
	var errs []error
	switch strings.ToLower(o.Distribution) {
	case DistributionNormal:
		if !(o.Sigma > 0) || math.IsInf(o.Sigma, 0) {
			errs = append(errs, fmt.Errorf("observed.sigma must be positive, got %v", o.Sigma))
		}
		if math.IsNaN(o.Mu) || math.IsInf(o.Mu, 0) {
			errs = append(errs, fmt.Errorf("observed.mu must be finite, got %v", o.Mu))
		}
	case DistributionUniform:
		if !(o.Min < o.Max) || math.IsInf(o.Min, 0) || math.IsInf(o.Max, 0) {
			errs = append(errs, fmt.Errorf("observed.min must be less than observed.max, got [%v, %v)", o.Min, o.Max))
		}
	default:
		errs = append(errs, fmt.Errorf("observed.distribution %q is not one of %s, %s", o.Distribution, DistributionNormal, DistributionUniform))
	}
	return errs
}

func (c *Config) bandwidthRule() (stats.BandwidthEstimator, error) {
	switch strings.ToLower(c.KDE.Rule) {
	case RuleSilverman:
		return stats.BandwidthSilverman, nil
	case RuleScott:
		return stats.BandwidthScott, nil
	}
	return nil, fmt.Errorf("kde.rule %q is not one of %s, %s", c.KDE.Rule, RuleSilverman, RuleScott)
}

// ObservedDensity returns the observed density described by c. c must
// be valid.
func (c *Config) ObservedDensity() stats.Dist {
	if strings.ToLower(c.Observed.Distribution) == DistributionUniform {
		return stats.UniformDist{Min: c.Observed.Min, Max: c.Observed.Max}
	}
	return stats.NormalDist{Mu: c.Observed.Mu, Sigma: c.Observed.Sigma}
}

// Constructor returns the posterior constructor described by c.
func (c *Config) Constructor() (posterior.Constructor, error) {
	rule, err := c.bandwidthRule()
	if err != nil {
		return posterior.Constructor{}, err
	}
	policy, err := posterior.ParseZeroDensityPolicy(c.ZeroDensity)
	if err != nil {
		return posterior.Constructor{}, err
	}
	k := stats.KDE{Bandwidth: c.KDE.Bandwidth, BandwidthRule: rule}
	if min, max, bounded := c.KDE.support(); bounded {
		k.BoundaryMethod = stats.BoundaryReflect
		k.BoundaryMin, k.BoundaryMax = min, max
	}
	return posterior.Constructor{
		KDE:         k,
		ZeroDensity: policy,
	}, nil
}
