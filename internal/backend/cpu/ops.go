package cpu

import (
	"fmt"

	"github.com/born-ml/convcast/internal/tensor"
)

// Add performs element-wise addition of two tensors with the same shape.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("add: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}
	result := cpu.alloc("add", a.Shape())
	out, x, y := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
	for i := range out {
		out[i] = x[i] + y[i]
	}
	return result
}

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("relu", x.Shape())
	out := result.AsFloat32()
	for i, v := range x.AsFloat32() {
		if v > 0 {
			out[i] = v
		}
	}
	return result
}

// ReLUBackward masks grad with input > 0.
func (cpu *CPUBackend) ReLUBackward(input, grad *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("relu backward", input.Shape())
	out, g := result.AsFloat32(), grad.AsFloat32()
	for i, v := range input.AsFloat32() {
		if v > 0 {
			out[i] = g[i]
		}
	}
	return result
}

// Reshape returns a new tensor header over the same elements.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	view, err := x.View(shape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// MSE returns mean((pred - target)²) as a [1] tensor.
func (cpu *CPUBackend) MSE(pred, target *tensor.RawTensor) *tensor.RawTensor {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("mse: predictions %v and targets %v must have the same shape", pred.Shape(), target.Shape()))
	}
	p, t := pred.AsFloat32(), target.AsFloat32()
	var sum float64
	for i := range p {
		d := float64(p[i] - t[i])
		sum += d * d
	}
	result := cpu.alloc("mse", tensor.Shape{1})
	result.AsFloat32()[0] = float32(sum / float64(len(p)))
	return result
}

// MSEBackward returns d(loss)/d(pred) = 2*(pred-target)/n scaled by the
// upstream scalar gradient.
func (cpu *CPUBackend) MSEBackward(pred, target, grad *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("mse backward", pred.Shape())
	out, p, t := result.AsFloat32(), pred.AsFloat32(), target.AsFloat32()
	scale := 2 * grad.AsFloat32()[0] / float32(len(p))
	for i := range out {
		out[i] = scale * (p[i] - t[i])
	}
	return result
}
