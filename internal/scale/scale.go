// Package scale normalises series column by column before training and
// maps predictions back to the original units.
package scale

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/convcast/internal/series"
)

// ErrWidth is returned when a series or row does not match the fitted width.
var ErrWidth = errors.New("width does not match scaler")

// Method selects how a column is normalised.
type Method string

// Supported methods.
const (
	None   Method = "none"
	MinMax Method = "minmax" // (x - min) / (max - min), into [0, 1]
	ZScore Method = "zscore" // (x - mean) / stddev
)

// ParseMethod parses a method name. The empty string means None.
func ParseMethod(name string) (Method, error) {
	switch m := Method(strings.ToLower(name)); m {
	case "", None:
		return None, nil
	case MinMax, ZScore:
		return m, nil
	default:
		return "", fmt.Errorf("unknown scaling method %q", name)
	}
}

// Scaler applies x' = (x - offset[j]) / scale[j] to column j.
type Scaler struct {
	method Method
	offset []float64
	scale  []float64
}

// Fit computes per-column parameters from the first rows observations of s.
// Fitting on the training prefix only keeps test statistics out of the
// transform. rows <= 0 or rows > s.Len() uses the whole series.
func Fit(s *series.Series, rows int, method Method) (*Scaler, error) {
	if rows <= 0 || rows > s.Len() {
		rows = s.Len()
	}
	if rows == 0 {
		return nil, series.ErrEmpty
	}

	sc := &Scaler{
		method: method,
		offset: make([]float64, s.Width()),
		scale:  make([]float64, s.Width()),
	}
	for j := range s.Width() {
		col := s.Column(j)[:rows]
		switch method {
		case None:
			sc.offset[j], sc.scale[j] = 0, 1
		case MinMax:
			sc.offset[j], sc.scale[j] = floats.Min(col), floats.Max(col)-floats.Min(col)
		case ZScore:
			sc.offset[j], sc.scale[j] = stat.MeanStdDev(col, nil)
		default:
			return nil, fmt.Errorf("unknown scaling method %q", method)
		}
		if sc.scale[j] == 0 || math.IsNaN(sc.scale[j]) {
			sc.scale[j] = 1
		}
	}
	return sc, nil
}

// New restores a scaler from saved parameters.
func New(method Method, offset, scale []float64) (*Scaler, error) {
	if len(offset) != len(scale) {
		return nil, fmt.Errorf("%w: %d offsets, %d scales", ErrWidth, len(offset), len(scale))
	}
	for j, v := range scale {
		if v == 0 {
			return nil, fmt.Errorf("scale of column %d is zero", j)
		}
	}
	return &Scaler{
		method: method,
		offset: append([]float64(nil), offset...),
		scale:  append([]float64(nil), scale...),
	}, nil
}

// Method returns the scaling method.
func (sc *Scaler) Method() Method {
	return sc.method
}

// Params returns copies of the per-column offset and scale.
func (sc *Scaler) Params() (offset, scale []float64) {
	return append([]float64(nil), sc.offset...), append([]float64(nil), sc.scale...)
}

// Width returns the number of columns the scaler was fitted on.
func (sc *Scaler) Width() int {
	return len(sc.offset)
}

// Transform returns s normalised.
func (sc *Scaler) Transform(s *series.Series) (*series.Series, error) {
	return sc.apply(s, sc.TransformRow)
}

// Inverse maps a normalised series back to original units.
func (sc *Scaler) Inverse(s *series.Series) (*series.Series, error) {
	return sc.apply(s, sc.InverseRow)
}

// TransformRow normalises one observation.
func (sc *Scaler) TransformRow(row []float64) []float64 {
	sc.checkRow(row)
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - sc.offset[j]) / sc.scale[j]
	}
	return out
}

// InverseRow maps one normalised observation back to original units.
func (sc *Scaler) InverseRow(row []float64) []float64 {
	sc.checkRow(row)
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v*sc.scale[j] + sc.offset[j]
	}
	return out
}

func (sc *Scaler) checkRow(row []float64) {
	if len(row) != len(sc.offset) {
		panic(fmt.Sprintf("scale: row of %d values, scaler has %d columns", len(row), len(sc.offset)))
	}
}

func (sc *Scaler) apply(s *series.Series, f func([]float64) []float64) (*series.Series, error) {
	if s.Width() != sc.Width() {
		return nil, fmt.Errorf("%w: series has %d columns, scaler %d", ErrWidth, s.Width(), sc.Width())
	}
	rows := s.Rows()
	for i, row := range rows {
		rows[i] = f(row)
	}
	out, err := series.New(rows)
	if err != nil {
		return nil, err
	}
	return out.WithNames(s.Names()...)
}
