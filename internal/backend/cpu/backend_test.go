package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convcast/internal/parallel"
	"github.com/born-ml/convcast/internal/tensor"
)

func raw(t *testing.T, data []float32, shape ...int) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat32(data, tensor.Shape(shape), tensor.CPU)
	require.NoError(t, err)
	return r
}

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())

	seq := New(WithParallel(parallel.Sequential()))
	assert.False(t, seq.Parallel().Enabled)
}

func TestCPUBackend_Add(t *testing.T) {
	backend := New()
	out := backend.Add(raw(t, []float32{1, 2, 3}, 3), raw(t, []float32{10, 20, 30}, 3))
	assert.Equal(t, []float32{11, 22, 33}, out.AsFloat32())

	assert.Panics(t, func() {
		backend.Add(raw(t, []float32{1, 2}, 2), raw(t, []float32{1, 2, 3}, 3))
	})
}

func TestCPUBackend_ReLU(t *testing.T) {
	backend := New()
	x := raw(t, []float32{-1, 0, 2, -3, 4}, 5)
	out := backend.ReLU(x)
	assert.Equal(t, []float32{0, 0, 2, 0, 4}, out.AsFloat32())

	grad := backend.ReLUBackward(x, raw(t, []float32{1, 1, 1, 1, 1}, 5))
	assert.Equal(t, []float32{0, 0, 1, 0, 1}, grad.AsFloat32())

	// input untouched
	assert.Equal(t, float32(-1), x.AsFloat32()[0])
}

func TestCPUBackend_MSE(t *testing.T) {
	backend := New()
	pred := raw(t, []float32{1, 2, 3, 4}, 2, 2)
	target := raw(t, []float32{1, 1, 1, 1}, 2, 2)

	loss := backend.MSE(pred, target)
	// (0 + 1 + 4 + 9) / 4
	assert.InDelta(t, 3.5, loss.AsFloat32()[0], 1e-6)

	grad := backend.MSEBackward(pred, target, raw(t, []float32{1}, 1))
	assert.InDeltaSlice(t, []float32{0, 0.5, 1, 1.5}, grad.AsFloat32(), 1e-6)
}

func TestCPUBackend_Reshape(t *testing.T) {
	backend := New()
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, 1, 3, 2)
	y := backend.Reshape(x, tensor.Shape{1, 6})
	assert.Equal(t, tensor.Shape{1, 6}, y.Shape())
	assert.Equal(t, x.AsFloat32(), y.AsFloat32())
	assert.NotSame(t, x, y)
}

func TestCPUBackend_Linear(t *testing.T) {
	backend := New()
	x := raw(t, []float32{1, 2, 3, 4}, 2, 2)
	w := raw(t, []float32{1, 0, 0, 1, 1, 1}, 3, 2)
	b := raw(t, []float32{0.5, -0.5, 0}, 3)

	out := backend.Linear(x, w, b)
	require.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.InDeltaSlice(t, []float32{1.5, 1.5, 3, 3.5, 3.5, 7}, out.AsFloat32(), 1e-6)

	gx, gw, gb := backend.LinearBackward(x, w, raw(t, []float32{1, 0, 1, 0, 1, 1}, 2, 3))
	// dX = dY @ W
	assert.InDeltaSlice(t, []float32{2, 1, 1, 2}, gx.AsFloat32(), 1e-6)
	// dW = dY.T @ X
	assert.InDeltaSlice(t, []float32{1, 2, 3, 4, 4, 6}, gw.AsFloat32(), 1e-6)
	assert.InDeltaSlice(t, []float32{1, 1, 2}, gb.AsFloat32(), 1e-6)
}

func TestCPUBackend_Conv1D(t *testing.T) {
	backend := New(WithParallel(parallel.Sequential()))

	// One sample, 4 steps, 1 channel: [1 2 3 4]; kernel [1 -1], bias 0.5.
	x := raw(t, []float32{1, 2, 3, 4}, 1, 4, 1)
	w := raw(t, []float32{1, -1}, 1, 2, 1)
	b := raw(t, []float32{0.5}, 1)

	out := backend.Conv1D(x, w, b, 1, 0)
	require.Equal(t, tensor.Shape{1, 3, 1}, out.Shape())
	assert.InDeltaSlice(t, []float32{-0.5, -0.5, -0.5}, out.AsFloat32(), 1e-6)

	padded := backend.Conv1D(x, w, nil, 1, 1)
	require.Equal(t, tensor.Shape{1, 5, 1}, padded.Shape())
	assert.InDeltaSlice(t, []float32{-1, -1, -1, -1, 4}, padded.AsFloat32(), 1e-6)
}

func TestCPUBackend_Conv1DMultiChannel(t *testing.T) {
	backend := New(WithParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}))

	// 2 steps x 2 channels, two filters of width 1.
	x := raw(t, []float32{1, 10, 2, 20}, 1, 2, 2)
	w := raw(t, []float32{1, 0, 0, 1}, 2, 1, 2)
	out := backend.Conv1D(x, w, nil, 1, 0)
	require.Equal(t, tensor.Shape{1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{1, 10, 2, 20}, out.AsFloat32())
}

func TestCPUBackend_Conv1DBackward(t *testing.T) {
	backend := New(WithParallel(parallel.Sequential()))

	x := raw(t, []float32{1, 2, 3}, 1, 3, 1)
	w := raw(t, []float32{2, 3}, 1, 2, 1)
	g := raw(t, []float32{1, 1}, 1, 2, 1)

	gx, gw, gb := backend.Conv1DBackward(x, w, g, 1, 0)
	// out0 = 2*x0 + 3*x1, out1 = 2*x1 + 3*x2
	assert.InDeltaSlice(t, []float32{2, 5, 3}, gx.AsFloat32(), 1e-6)
	assert.InDeltaSlice(t, []float32{3, 5}, gw.AsFloat32(), 1e-6)
	assert.InDeltaSlice(t, []float32{2}, gb.AsFloat32(), 1e-6)
}

func TestCPUBackend_Conv1DInvalid(t *testing.T) {
	backend := New()
	x := raw(t, []float32{1, 2}, 1, 2, 1)
	assert.Panics(t, func() { backend.Conv1D(x, raw(t, []float32{1, 1, 1}, 1, 3, 1), nil, 1, 0) })
	assert.Panics(t, func() { backend.Conv1D(x, raw(t, []float32{1, 1}, 1, 1, 2), nil, 1, 0) })
}

func TestCPUBackend_MaxPool1D(t *testing.T) {
	backend := New()
	x := raw(t, []float32{1, 5, 3, 2, 7, 7, 9}, 1, 7, 1)

	out := backend.MaxPool1D(x, 2)
	require.Equal(t, tensor.Shape{1, 3, 1}, out.Shape())
	assert.Equal(t, []float32{5, 3, 7}, out.AsFloat32())

	grad := backend.MaxPool1DBackward(x, raw(t, []float32{1, 2, 3}, 1, 3, 1), 2)
	assert.Equal(t, []float32{0, 1, 2, 0, 3, 0, 0}, grad.AsFloat32())
}
