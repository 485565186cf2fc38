// Package metrics scores predictions against observed values.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrShape is returned when predictions and observations differ in shape.
var ErrShape = errors.New("predictions and observations differ in shape")

// Scores holds the regression metrics for one set of values.
type Scores struct {
	MSE  float64
	RMSE float64
	MAE  float64
	MAPE float64 // percent; NaN when every observation is zero
	R2   float64
}

// Report holds the overall scores and one entry per variable.
type Report struct {
	Count   int
	Overall Scores
	Columns []Scores
}

// MSE returns the mean squared error.
func MSE(pred, actual []float64) float64 {
	d := floats.Distance(pred, actual, 2)
	return d * d / float64(len(pred))
}

// RMSE returns the root mean squared error.
func RMSE(pred, actual []float64) float64 {
	return math.Sqrt(MSE(pred, actual))
}

// MAE returns the mean absolute error.
func MAE(pred, actual []float64) float64 {
	return floats.Distance(pred, actual, 1) / float64(len(pred))
}

// MAPE returns the mean absolute percentage error over observations that
// are not zero.
func MAPE(pred, actual []float64) float64 {
	var sum float64
	n := 0
	for i, a := range actual {
		if a == 0 {
			continue
		}
		sum += math.Abs((a - pred[i]) / a)
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return 100 * sum / float64(n)
}

// R2 returns the coefficient of determination.
func R2(pred, actual []float64) float64 {
	return stat.RSquaredFrom(pred, actual, nil)
}

// Score computes every metric for one set of values.
func Score(pred, actual []float64) Scores {
	return Scores{
		MSE:  MSE(pred, actual),
		RMSE: RMSE(pred, actual),
		MAE:  MAE(pred, actual),
		MAPE: MAPE(pred, actual),
		R2:   R2(pred, actual),
	}
}

// Compute scores predicted rows against observed rows, per column and
// overall.
func Compute(pred, actual [][]float64) (*Report, error) {
	if len(pred) != len(actual) || len(pred) == 0 {
		return nil, fmt.Errorf("%w: %d predictions, %d observations", ErrShape, len(pred), len(actual))
	}
	width := len(actual[0])
	cols := make([][2][]float64, width)
	var allPred, allActual []float64
	for i := range actual {
		if len(pred[i]) != width || len(actual[i]) != width {
			return nil, fmt.Errorf("%w: row %d", ErrShape, i)
		}
		for j := range width {
			cols[j][0] = append(cols[j][0], pred[i][j])
			cols[j][1] = append(cols[j][1], actual[i][j])
		}
		allPred = append(allPred, pred[i]...)
		allActual = append(allActual, actual[i]...)
	}

	report := &Report{Count: len(actual), Overall: Score(allPred, allActual)}
	for _, c := range cols {
		report.Columns = append(report.Columns, Score(c[0], c[1]))
	}
	return report, nil
}
