// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/backend/cpu"
	"github.com/born-ml/convcast/tensor"
)

func TestFromSliceThroughBackend(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{-1, 2, -3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	y := x.ReLU().Add(tensor.Full(tensor.Shape{2, 2}, 1, backend))
	assert.Equal(t, []float32{1, 3, 1, 5}, y.Data())
	assert.Equal(t, tensor.Shape{4}, y.Reshape(4).Shape())
	assert.Equal(t, tensor.CPU, y.Raw().Device())
}

func TestZeros(t *testing.T) {
	z := tensor.Zeros(tensor.Shape{1, 3, 2}, cpu.New())
	assert.Equal(t, 6, z.NumElements())
	assert.Panics(t, func() { tensor.Zeros(tensor.Shape{0}, cpu.New()) })
}
