// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset loads prior sample sets: QoI observations and the
// parameter vectors that produced them.
//
// A data file is YAML or JSON with two row-major matrices:
//
//	qoi:     # N×M, one column is used
//	- [0.712]
//	- [0.695]
//	lambda:  # N×D, optional
//	- [0.21, 1.30]
//	- [0.19, 1.28]
package dataset // import "github.com/cbayes/go-cbayes/dataset"

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"
	"sigs.k8s.io/yaml"
)

// ErrInvalidData is wrapped by every validation error from Load and
// Decode.
var ErrInvalidData = errors.New("invalid sample data")

// File is the on-disk form of a sample set.
type File struct {
	QoI    [][]float64 `json:"qoi"`
	Lambda [][]float64 `json:"lambda,omitempty"`
}

// SampleSet is a prior sample: Q[i] is the QoI produced by parameter
// row i of Lambda.
type SampleSet struct {
	Q []float64

	// Lambda is N×D, or nil if the file has no parameters.
	Lambda *mat.Dense
}

// N returns the number of samples.
func (s *SampleSet) N() int {
	return len(s.Q)
}

// Dims returns the parameter dimension, or 0 if there are no
// parameters.
func (s *SampleSet) Dims() int {
	if s.Lambda == nil {
		return 0
	}
	_, d := s.Lambda.Dims()
	return d
}

// Load reads the sample set at path from fs, using column of the QoI
// matrix.
func Load(fs afero.Fs, path string, column int) (*SampleSet, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	set, err := Decode(raw, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Decode parses a YAML or JSON sample set and selects column of the
// QoI matrix.
func Decode(raw []byte, column int) (*SampleSet, error) {
	var f File
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return f.SampleSet(column)
}

// SampleSet validates f and converts it to a SampleSet using column of
// the QoI matrix.
func (f *File) SampleSet(column int) (*SampleSet, error) {
	n := len(f.QoI)
	if n == 0 {
		return nil, fmt.Errorf("%w: no QoI samples", ErrInvalidData)
	}
	m, err := width("qoi", f.QoI)
	if err != nil {
		return nil, err
	}
	if column < 0 || column >= m {
		return nil, fmt.Errorf("%w: QoI column %d out of range [0, %d)", ErrInvalidData, column, m)
	}

	q := make([]float64, n)
	for i, row := range f.QoI {
		q[i] = row[column]
	}

	if f.Lambda == nil {
		return &SampleSet{Q: q}, nil
	}
	if len(f.Lambda) != n {
		return nil, fmt.Errorf("%w: %d QoI rows but %d parameter rows", ErrInvalidData, n, len(f.Lambda))
	}
	d, err := width("lambda", f.Lambda)
	if err != nil {
		return nil, err
	}
	lam := mat.NewDense(n, d, nil)
	for i, row := range f.Lambda {
		lam.SetRow(i, row)
	}
	return &SampleSet{Q: q, Lambda: lam}, nil
}

// width checks that rows is a non-empty rectangular matrix of finite
// values and returns its column count.
func width(name string, rows [][]float64) (int, error) {
	w := len(rows[0])
	if w == 0 {
		return 0, fmt.Errorf("%w: %s rows are empty", ErrInvalidData, name)
	}
	for i, row := range rows {
		if len(row) != w {
			return 0, fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrInvalidData, name, i, len(row), w)
		}
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return 0, fmt.Errorf("%w: %s[%d][%d] is %v", ErrInvalidData, name, i, j, x)
			}
		}
	}
	return w, nil
}

// Write encodes set as YAML to path in fs.
func Write(fs afero.Fs, path string, set *SampleSet) error {
	f := File{QoI: make([][]float64, len(set.Q))}
	for i, q := range set.Q {
		f.QoI[i] = []float64{q}
	}
	if set.Lambda != nil {
		r, _ := set.Lambda.Dims()
		f.Lambda = make([][]float64, r)
		for i := range f.Lambda {
			f.Lambda[i] = mat.Row(nil, i, set.Lambda)
		}
	}
	raw, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal sample set: %w", err)
	}
	if err := afero.WriteFile(fs, path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
