package series

import (
	"math"
	"math/rand"
)

// Fibonacci returns the first n Fibonacci numbers starting 1, 1.
func Fibonacci(n int) *Series {
	values := make([]float64, n)
	for i := range values {
		if i < 2 {
			values[i] = 1
			continue
		}
		values[i] = values[i-1] + values[i-2]
	}
	return mustValues(values)
}

// Ramp returns start, start+step, ... with n values.
func Ramp(n int, start, step float64) *Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	return mustValues(values)
}

// Sine returns amplitude*sin(2πi/period) for i in [0, n).
func Sine(n int, period, amplitude float64) *Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = amplitude * math.Sin(2*math.Pi*float64(i)/period)
	}
	return mustValues(values)
}

// Multivariate returns the parallel series used for multi-input
// forecasting: two ramps 10, 20, 30, ... and 15, 25, 35, ... and their sum.
func Multivariate(n int) *Series {
	in1 := make([]float64, n)
	in2 := make([]float64, n)
	out := make([]float64, n)
	for i := range in1 {
		in1[i] = float64(10 * (i + 1))
		in2[i] = in1[i] + 5
		out[i] = in1[i] + in2[i]
	}
	s, err := Stack(in1, in2, out)
	if err != nil {
		panic(err)
	}
	s.names = []string{"in1", "in2", "out"}
	return s
}

// Noisy returns a copy of s with Gaussian noise of standard deviation sigma
// added to every value. The same seed gives the same noise.
func Noisy(s *Series, sigma float64, seed int64) *Series {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // synthetic data
	data := make([]float64, len(s.data))
	for i, v := range s.data {
		data[i] = v + rng.NormFloat64()*sigma
	}
	return &Series{data: data, n: s.n, width: s.width, names: s.names}
}

// mustValues wraps FromValues for generators. n == 0 yields an empty series.
func mustValues(values []float64) *Series {
	if len(values) == 0 {
		return &Series{width: 1, names: defaultNames(1)}
	}
	s, err := FromValues(values)
	if err != nil {
		panic(err)
	}
	return s
}
