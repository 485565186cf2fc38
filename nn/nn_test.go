// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/backend/cpu"
	"github.com/born-ml/convcast/nn"
	"github.com/born-ml/convcast/tensor"
)

func newModel(seed int64, backend *cpu.Backend) *nn.Sequential[*cpu.Backend] {
	rng := rand.New(rand.NewSource(seed))
	return nn.NewSequential[*cpu.Backend](
		nn.NewConv1D(1, 4, 2, 1, 0, true, rng, backend).WithReLU(),
		nn.NewMaxPool1D(2, backend),
		nn.NewFlatten[*cpu.Backend](),
		nn.NewLinear(4, 3, rng, backend).WithReLU(),
		nn.NewLinear(3, 1, rng, backend),
	)
}

func TestForecasterStack(t *testing.T) {
	backend := cpu.New()
	model := newModel(1, backend)

	x, err := tensor.FromSlice([]float32{1, 1, 2, 3, 5, 8}, tensor.Shape{2, 3, 1}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 1}, model.Forward(x).Shape())

	// conv 4*2+4, dense 4*3+3, dense 3+1
	assert.Equal(t, 12+15+4, nn.NumParameters[*cpu.Backend](model))
}

func TestSaveLoad(t *testing.T) {
	backend := cpu.New()
	src := newModel(1, backend)
	dst := newModel(2, backend)

	path := filepath.Join(t.TempDir(), "model.cnvc")
	require.NoError(t, nn.Save[*cpu.Backend](path, src, nn.Header{ModelType: "test"}))

	header, err := nn.Load[*cpu.Backend](path, dst)
	require.NoError(t, err)
	assert.Equal(t, "test", header.ModelType)

	x, err := tensor.FromSlice([]float32{0.1, 0.4, 0.9}, tensor.Shape{1, 3, 1}, backend)
	require.NoError(t, err)
	assert.Equal(t, src.Forward(x).Data(), dst.Forward(x).Data())
}
