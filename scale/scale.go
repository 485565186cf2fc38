// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scale normalises series column by column before training and maps
// predictions back to original units.
package scale

import (
	"github.com/born-ml/convcast/internal/scale"
	"github.com/born-ml/convcast/series"
)

// Method selects the normalisation.
type Method = scale.Method

// Supported methods.
const (
	None   = scale.None
	MinMax = scale.MinMax
	ZScore = scale.ZScore
)

// Scaler applies per-column affine normalisation.
type Scaler = scale.Scaler

// ParseMethod parses a method name. The empty string means None.
func ParseMethod(name string) (Method, error) {
	return scale.ParseMethod(name)
}

// Fit computes parameters from the first rows observations of s (all of
// them when rows <= 0).
func Fit(s *series.Series, rows int, method Method) (*Scaler, error) {
	return scale.Fit(s, rows, method)
}

// New restores a scaler from saved parameters.
func New(method Method, offset, factor []float64) (*Scaler, error) {
	return scale.New(method, offset, factor)
}
