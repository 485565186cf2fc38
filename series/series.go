// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package series provides the ordered observations convcast windows and
// forecasts.
//
// A Series has one row per time step and one column per variable. Series
// come from slices, from CSV files (plain or .xz compressed) or from the
// synthetic generators.
//
// Example:
//
//	s, err := series.Open("sales.csv.xz", "in1", "in2", "out")
//	fib := series.Fibonacci(10)
package series

import (
	"io"

	"github.com/born-ml/convcast/internal/series"
)

// Series is an immutable matrix of observations.
type Series = series.Series

// Errors returned by the constructors and readers.
var (
	ErrEmpty        = series.ErrEmpty
	ErrRagged       = series.ErrRagged
	ErrLength       = series.ErrLength
	ErrColumn       = series.ErrColumn
	ErrMissingValue = series.ErrMissingValue
)

// New builds a series from rows of equal width.
func New(rows [][]float64) (*Series, error) {
	return series.New(rows)
}

// FromValues builds a univariate series.
func FromValues(values []float64) (*Series, error) {
	return series.FromValues(values)
}

// Stack builds a series from equal-length columns.
func Stack(columns ...[]float64) (*Series, error) {
	return series.Stack(columns...)
}

// ReadCSV reads a headed CSV, keeping the named columns in order (all
// columns when none are named).
func ReadCSV(r io.Reader, columns ...string) (*Series, error) {
	return series.ReadCSV(r, columns...)
}

// Open reads a CSV file. Paths ending in .xz are decompressed.
func Open(path string, columns ...string) (*Series, error) {
	return series.Open(path, columns...)
}

// Generators

// Fibonacci returns the first n Fibonacci numbers starting 1, 1.
func Fibonacci(n int) *Series {
	return series.Fibonacci(n)
}

// Ramp returns start, start+step, ... of length n.
func Ramp(n int, start, step float64) *Series {
	return series.Ramp(n, start, step)
}

// Sine returns n samples of a sine wave.
func Sine(n int, period, amplitude float64) *Series {
	return series.Sine(n, period, amplitude)
}

// Multivariate returns two input columns and their sum.
func Multivariate(n int) *Series {
	return series.Multivariate(n)
}

// Noisy adds seeded Gaussian noise to s.
func Noisy(s *Series, sigma float64, seed int64) *Series {
	return series.Noisy(s, sigma, seed)
}
