package series

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCopiesAndValidatesRows(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	s, err := New(rows)
	require.NoError(t, err)
	rows[0][0] = 99

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, []float64{1, 2}, s.Row(0))
	assert.Equal(t, []float64{2, 4, 6}, s.Column(1))
	assert.Equal(t, 5.0, s.At(2, 0))

	_, err = New([][]float64{{1, 2}, {3}})
	assert.True(t, errors.Is(err, ErrRagged))
	_, err = New(nil)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestStack(t *testing.T) {
	s, err := Stack([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, s.Rows())

	_, err = Stack([]float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, ErrLength))
}

func TestGenerators(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 2, 3, 5, 8, 13, 21}, Fibonacci(8).Values())
	assert.Equal(t, []float64{10, 20, 30}, Ramp(3, 10, 10).Values())
	assert.Equal(t, 0, Fibonacci(0).Len())

	sine := Sine(4, 4, 2).Values()
	assert.InDelta(t, 0, sine[0], 1e-12)
	assert.InDelta(t, 2, sine[1], 1e-12)
	assert.InDelta(t, -2, sine[3], 1e-12)

	mv := Multivariate(3)
	assert.Equal(t, []string{"in1", "in2", "out"}, mv.Names())
	assert.Equal(t, [][]float64{{10, 15, 25}, {20, 25, 45}, {30, 35, 65}}, mv.Rows())
}

func TestNoisyIsSeeded(t *testing.T) {
	base := Ramp(50, 0, 1)
	a := Noisy(base, 0.5, 7)
	b := Noisy(base, 0.5, 7)
	c := Noisy(base, 0.5, 8)

	assert.Equal(t, a.Values(), b.Values())
	assert.NotEqual(t, a.Values(), c.Values())
	assert.Equal(t, float64(0), base.At(0, 0))
}

func TestAppend(t *testing.T) {
	s := Ramp(2, 1, 1)
	grown, err := s.Append([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, grown.Values())
	assert.Equal(t, 2, s.Len())

	_, err = s.Append([]float64{3, 4})
	assert.True(t, errors.Is(err, ErrRagged))
}

func TestValidate(t *testing.T) {
	s, err := FromValues([]float64{1, math.NaN()})
	require.NoError(t, err)
	assert.True(t, errors.Is(s.Validate(), ErrMissingValue))
}

func TestReadCSV(t *testing.T) {
	const data = "date,in1,in2,out\n" +
		"2024-01-01,10,15,25\n" +
		"2024-01-02,20,25,45\n" +
		"2024-01-03,30,35,65\n"

	s, err := ReadCSV(strings.NewReader(data), "out", "in1")
	require.NoError(t, err)
	assert.Equal(t, []string{"out", "in1"}, s.Names())
	assert.Equal(t, [][]float64{{25, 10}, {45, 20}, {65, 30}}, s.Rows())

	_, err = ReadCSV(strings.NewReader(data), "missing")
	assert.True(t, errors.Is(err, ErrColumn))

	_, err = ReadCSV(strings.NewReader(data))
	assert.True(t, errors.Is(err, ErrMissingValue))

	_, err = ReadCSV(strings.NewReader("v\n1\n\n3\nx\n"), "v")
	assert.True(t, errors.Is(err, ErrMissingValue))
}

func TestCSVRoundTrip(t *testing.T) {
	mv := Multivariate(5)

	var buf bytes.Buffer
	require.NoError(t, mv.WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "in1,in2,out\n"))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, mv.Rows(), back.Rows())
}

func TestFileRoundTripWithXZ(t *testing.T) {
	for _, name := range []string{"series.csv", "series.csv.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Fibonacci(10).Create(path))

			back, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, Fibonacci(10).Values(), back.Values())
		})
	}

	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
