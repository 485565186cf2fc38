// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package window turns a timeseries into supervised learning instances.
//
// A window of size w slides over the series with stride 1. Each position
// pairs w consecutive observations with the observation right after them,
// so a series of length L yields L-w instances, oldest first.
//
// Example:
//
//	in, err := window.Build(series.Fibonacci(8), 5)
//	// in.Input(0) = [[1] [1] [2] [3] [5]], in.Target(0) = [8]
//	train, test, err := in.Split(1)
package window

import (
	"github.com/born-ml/convcast/internal/window"
	"github.com/born-ml/convcast/series"
	"github.com/born-ml/convcast/tensor"
)

// Instances is a windowed instance set.
type Instances = window.Instances

// Errors returned by this package.
var (
	ErrInvalidArgument = window.ErrInvalidArgument
	ErrInvalidWindow   = window.ErrInvalidWindow
	ErrInvalidSplit    = window.ErrInvalidSplit
	ErrRagged          = window.ErrRagged
)

// Build slides a window of size steps over s. It fails with
// ErrInvalidWindow unless 0 < size < s.Len().
func Build(s *series.Series, size int) (*Instances, error) {
	return window.Build(s, size)
}

// BuildValues windows a univariate sequence.
func BuildValues(values []float64, size int) (*Instances, error) {
	return window.BuildValues(values, size)
}

// BuildRows windows a multivariate sequence given as rows.
func BuildRows(rows [][]float64, size int) (*Instances, error) {
	return window.BuildRows(rows, size)
}

// Last returns the final size observations of s as a single input window.
func Last(s *series.Series, size int) ([][][]float64, error) {
	return window.Last(s, size)
}

// Tensors converts in to [n, size, width] inputs and [n, width] targets.
func Tensors[B tensor.Backend](in *Instances, b B) (inputs, targets *tensor.Tensor[B], err error) {
	return window.Tensors(in, b)
}
