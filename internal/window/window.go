// Package window turns a timeseries into supervised learning instances.
//
// Every instance pairs w consecutive observations (the input window) with
// the observation that immediately follows them (the target). A series of
// length L yields L-w instances in chronological order:
//
//	series   1 1 2 3 5 8 13 21, w = 5
//	inputs   [1 1 2 3 5] [1 2 3 5 8] [2 3 5 8 13]
//	targets   8           13          21
package window

import (
	"errors"
	"fmt"

	"github.com/born-ml/convcast/internal/series"
)

// Errors returned by this package.
var (
	// ErrInvalidArgument is wrapped by every precondition failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidWindow reports a window size outside (0, series length).
	ErrInvalidWindow = fmt.Errorf("%w: window size", ErrInvalidArgument)

	// ErrInvalidSplit reports a test size or fraction out of range.
	ErrInvalidSplit = fmt.Errorf("%w: split", ErrInvalidArgument)

	// ErrRagged reports multivariate rows of different lengths.
	ErrRagged = series.ErrRagged
)

// Instances is a windowed instance set: n inputs of size × width values
// and n targets of width values, stored row-major.
type Instances struct {
	inputs  []float64 // n*size*width
	targets []float64 // n*width
	n       int
	size    int
	width   int
}

// Build slides a window of size steps over s with stride 1. It fails with
// ErrInvalidWindow unless 0 < size < s.Len(). The result shares no memory
// with s.
func Build(s *series.Series, size int) (*Instances, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil series", ErrInvalidArgument)
	}
	length := s.Len()
	if size <= 0 || size >= length {
		return nil, fmt.Errorf("%w: size %d for series of length %d (need 0 < size < length)",
			ErrInvalidWindow, size, length)
	}

	width := s.Width()
	n := length - size
	inst := &Instances{
		inputs:  make([]float64, 0, n*size*width),
		targets: make([]float64, 0, n*width),
		n:       n,
		size:    size,
		width:   width,
	}
	for i := range n {
		for step := i; step < i+size; step++ {
			inst.inputs = append(inst.inputs, s.Row(step)...)
		}
		inst.targets = append(inst.targets, s.Row(i+size)...)
	}
	return inst, nil
}

// BuildValues windows a univariate sequence.
func BuildValues(values []float64, size int) (*Instances, error) {
	s, err := series.FromValues(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	return Build(s, size)
}

// BuildRows windows a multivariate sequence of rectangular rows.
func BuildRows(rows [][]float64, size int) (*Instances, error) {
	s, err := series.New(rows)
	if err != nil {
		if errors.Is(err, series.ErrRagged) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	return Build(s, size)
}

// Last returns the most recent size observations of s as a single
// [1][size][width] input, the window a forecast starts from. It requires
// 0 < size <= s.Len().
func Last(s *series.Series, size int) ([][][]float64, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil series", ErrInvalidArgument)
	}
	if size <= 0 || size > s.Len() {
		return nil, fmt.Errorf("%w: size %d for series of length %d (need 0 < size <= length)",
			ErrInvalidWindow, size, s.Len())
	}
	rows := make([][]float64, size)
	for k := range rows {
		rows[k] = s.Row(s.Len() - size + k)
	}
	return [][][]float64{rows}, nil
}
