// Package series holds ordered numeric observations, one row per time step
// and one column per variable, plus the synthetic generators and CSV readers
// that produce them.
package series

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by the constructors and readers.
var (
	ErrEmpty        = errors.New("series is empty")
	ErrRagged       = errors.New("rows have different lengths")
	ErrLength       = errors.New("columns have different lengths")
	ErrColumn       = errors.New("unknown column")
	ErrMissingValue = errors.New("missing or non-finite value")
)

// Series is an immutable matrix of observations: Len rows by Width
// variables. Width 1 is a univariate series.
type Series struct {
	data  []float64 // row-major, len = n*width
	n     int
	width int
	names []string
}

// New builds a series from rows. Every row must have the same non-zero
// length. The input is copied.
func New(rows [][]float64) (*Series, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	width := len(rows[0])
	if width == 0 {
		return nil, ErrEmpty
	}
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, row 0 has %d", ErrRagged, i, len(row), width)
		}
		data = append(data, row...)
	}
	return &Series{data: data, n: len(rows), width: width, names: defaultNames(width)}, nil
}

// FromValues builds a univariate series. The input is copied.
func FromValues(values []float64) (*Series, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	data := make([]float64, len(values))
	copy(data, values)
	return &Series{data: data, n: len(values), width: 1, names: defaultNames(1)}, nil
}

// Stack builds a multivariate series whose j-th variable is columns[j].
// All columns must have the same length.
func Stack(columns ...[]float64) (*Series, error) {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil, ErrEmpty
	}
	n, width := len(columns[0]), len(columns)
	data := make([]float64, n*width)
	for j, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("%w: column %d has %d values, column 0 has %d", ErrLength, j, len(col), n)
		}
		for i, v := range col {
			data[i*width+j] = v
		}
	}
	return &Series{data: data, n: n, width: width, names: defaultNames(width)}, nil
}

func defaultNames(width int) []string {
	if width == 1 {
		return []string{"value"}
	}
	names := make([]string, width)
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j)
	}
	return names
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return s.n
}

// Width returns the number of variables per observation.
func (s *Series) Width() int {
	return s.width
}

// Names returns the variable names.
func (s *Series) Names() []string {
	return append([]string(nil), s.names...)
}

// WithNames returns a copy of s with the given variable names.
func (s *Series) WithNames(names ...string) (*Series, error) {
	if len(names) != s.width {
		return nil, fmt.Errorf("%w: %d names for %d variables", ErrLength, len(names), s.width)
	}
	out := *s
	out.names = append([]string(nil), names...)
	return &out, nil
}

// At returns the value of variable j at step i.
func (s *Series) At(i, j int) float64 {
	if i < 0 || i >= s.n || j < 0 || j >= s.width {
		panic(fmt.Sprintf("series: index (%d, %d) out of range for %dx%d", i, j, s.n, s.width))
	}
	return s.data[i*s.width+j]
}

// Row returns a copy of observation i.
func (s *Series) Row(i int) []float64 {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("series: row %d out of range [0, %d)", i, s.n))
	}
	row := make([]float64, s.width)
	copy(row, s.data[i*s.width:(i+1)*s.width])
	return row
}

// Rows returns a copy of every observation.
func (s *Series) Rows() [][]float64 {
	rows := make([][]float64, s.n)
	for i := range rows {
		rows[i] = s.Row(i)
	}
	return rows
}

// Column returns a copy of variable j.
func (s *Series) Column(j int) []float64 {
	if j < 0 || j >= s.width {
		panic(fmt.Sprintf("series: column %d out of range [0, %d)", j, s.width))
	}
	col := make([]float64, s.n)
	for i := range col {
		col[i] = s.data[i*s.width+j]
	}
	return col
}

// Values returns a copy of a univariate series' values. It panics if the
// series has more than one variable.
func (s *Series) Values() []float64 {
	if s.width != 1 {
		panic(fmt.Sprintf("series: Values on a %d-variable series", s.width))
	}
	return s.Column(0)
}

// Append returns a new series with rows added after the last observation.
func (s *Series) Append(rows ...[]float64) (*Series, error) {
	data := make([]float64, len(s.data), len(s.data)+len(rows)*s.width)
	copy(data, s.data)
	for i, row := range rows {
		if len(row) != s.width {
			return nil, fmt.Errorf("%w: appended row %d has %d values, series has %d", ErrRagged, i, len(row), s.width)
		}
		data = append(data, row...)
	}
	return &Series{data: data, n: s.n + len(rows), width: s.width, names: s.names}, nil
}

// Validate reports an ErrMissingValue for the first NaN or infinity.
func (s *Series) Validate() error {
	for k, v := range s.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at row %d, column %q", ErrMissingValue, k/s.width, s.names[k%s.width])
		}
	}
	return nil
}
