// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package window_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/backend/cpu"
	"github.com/born-ml/convcast/series"
	"github.com/born-ml/convcast/tensor"
	"github.com/born-ml/convcast/window"
)

func TestFibonacciWindows(t *testing.T) {
	in, err := window.BuildValues([]float64{1, 1, 2, 3, 5, 8, 13, 21}, 5)
	require.NoError(t, err)
	require.Equal(t, 3, in.Len())

	assert.Equal(t, [][]float64{{1}, {1}, {2}, {3}, {5}}, in.Input(0))
	assert.Equal(t, []float64{8}, in.Target(0))
	assert.Equal(t, []float64{21}, in.Target(2))
}

func TestWindowTooLarge(t *testing.T) {
	_, err := window.Build(series.Fibonacci(4), 4)
	assert.True(t, errors.Is(err, window.ErrInvalidWindow))
	assert.True(t, errors.Is(err, window.ErrInvalidArgument))
}

func TestTensorsLayout(t *testing.T) {
	in, err := window.Build(series.Multivariate(6), 3)
	require.NoError(t, err)

	x, y, err := window.Tensors(in, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 3, 3}, x.Shape())
	assert.Equal(t, tensor.Shape{3, 3}, y.Shape())
}
