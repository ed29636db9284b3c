// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stats provides the density estimation used to invert a
// quantity-of-interest map: weighted samples, reference
// distributions, and Gaussian kernel density estimates.
package stats // import "github.com/cbayes/go-cbayes/stats"

import "math"

var inf = math.Inf(1)
var nan = math.NaN()
