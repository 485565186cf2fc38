package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarMetrics(t *testing.T) {
	pred := []float64{2, 4, 6}
	actual := []float64{1, 4, 8}

	assert.InDelta(t, 5.0/3.0, MSE(pred, actual), 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), RMSE(pred, actual), 1e-12)
	assert.InDelta(t, 1, MAE(pred, actual), 1e-12)
	assert.InDelta(t, 100*(1+0+0.25)/3, MAPE(pred, actual), 1e-9)

	// ss_res = 5, ss_tot = (1-13/3)² + (4-13/3)² + (8-13/3)² = 74/3
	assert.InDelta(t, 1-5/(74.0/3.0), R2(pred, actual), 1e-12)
}

func TestMAPESkipsZeros(t *testing.T) {
	assert.InDelta(t, 50, MAPE([]float64{5, 1}, []float64{0, 2}), 1e-12)
	assert.True(t, math.IsNaN(MAPE([]float64{1}, []float64{0})))
}

func TestPerfectPrediction(t *testing.T) {
	v := []float64{3, 1, 2}
	s := Score(v, v)
	assert.Zero(t, s.MSE)
	assert.Zero(t, s.MAE)
	assert.InDelta(t, 1, s.R2, 1e-12)
}

func TestCompute(t *testing.T) {
	pred := [][]float64{{1, 10}, {2, 20}}
	actual := [][]float64{{1, 12}, {2, 18}}

	report, err := Compute(pred, actual)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count)
	require.Len(t, report.Columns, 2)
	assert.Zero(t, report.Columns[0].MSE)
	assert.InDelta(t, 4, report.Columns[1].MSE, 1e-12)
	assert.InDelta(t, 2, report.Overall.MSE, 1e-12)

	_, err = Compute(pred, actual[:1])
	assert.True(t, errors.Is(err, ErrShape))
	_, err = Compute([][]float64{{1}}, [][]float64{{1, 2}})
	assert.True(t, errors.Is(err, ErrShape))
}
