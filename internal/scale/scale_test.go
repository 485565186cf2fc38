package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/internal/series"
)

func TestMinMaxFitsPrefixOnly(t *testing.T) {
	s := series.Ramp(10, 0, 1)
	sc, err := Fit(s, 5, MinMax)
	require.NoError(t, err)

	out, err := sc.Transform(s)
	require.NoError(t, err)
	vals := out.Values()
	assert.InDelta(t, 0, vals[0], 1e-12)
	assert.InDelta(t, 1, vals[4], 1e-12)
	assert.InDelta(t, 2.25, vals[9], 1e-12)

	back, err := sc.Inverse(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, s.Values(), back.Values(), 1e-9)
}

func TestZScore(t *testing.T) {
	s, err := series.FromValues([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	sc, err := Fit(s, 0, ZScore)
	require.NoError(t, err)

	offset, scale := sc.Params()
	assert.InDelta(t, 5, offset[0], 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), scale[0], 1e-12)
	assert.InDeltaSlice(t, []float64{7}, sc.InverseRow(sc.TransformRow([]float64{7})), 1e-12)
}

func TestConstantColumnIsCentredOnly(t *testing.T) {
	s, err := series.Stack([]float64{3, 3, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	sc, err := Fit(s, 0, MinMax)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.5}, sc.TransformRow([]float64{3, 2}))
}

func TestWidthMismatch(t *testing.T) {
	sc, err := Fit(series.Multivariate(4), 0, ZScore)
	require.NoError(t, err)
	_, err = sc.Transform(series.Ramp(4, 0, 1))
	assert.True(t, errors.Is(err, ErrWidth))
	assert.Panics(t, func() { sc.InverseRow([]float64{1}) })
}

func TestParseMethodAndRestore(t *testing.T) {
	m, err := ParseMethod("MinMax")
	require.NoError(t, err)
	assert.Equal(t, MinMax, m)
	m, err = ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, None, m)
	_, err = ParseMethod("log")
	assert.Error(t, err)

	sc, err := New(ZScore, []float64{1}, []float64{2})
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, sc.TransformRow([]float64{5}))

	_, err = New(ZScore, []float64{1}, []float64{0})
	assert.Error(t, err)
}
