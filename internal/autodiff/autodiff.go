// Package autodiff implements reverse-mode automatic differentiation for the
// convcast network using the decorator pattern.
//
// Backend[B] wraps a kernel backend and records every forward call as an
// ops.Operation on a GradientTape. Backward walks the tape in reverse and
// returns gradients keyed by the *tensor.RawTensor they belong to.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := model.Forward(x) ... criterion.Forward(pred, y)
//	grads := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
//	backend.Tape().Clear()
package autodiff

import (
	"fmt"

	"github.com/born-ml/convcast/internal/autodiff/ops"
	"github.com/born-ml/convcast/internal/tensor"
)

// Backend wraps a kernel backend and adds automatic differentiation.
// It implements tensor.Backend.
type Backend[B ops.Kernels] struct {
	inner B
	tape  *GradientTape
}

// New creates a new autodiff Backend wrapping the given backend.
func New[B ops.Kernels](backend B) *Backend[B] {
	return &Backend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *Backend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *Backend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *Backend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *Backend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Conv1D performs the convolution and records the operation.
func (b *Backend[B]) Conv1D(input, weight, bias *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	result := b.inner.Conv1D(input, weight, bias, stride, padding)
	b.tape.Record(ops.NewConv1DOp(input, weight, bias, result, stride, padding))
	return result
}

// MaxPool1D performs max pooling and records the operation.
func (b *Backend[B]) MaxPool1D(input *tensor.RawTensor, poolSize int) *tensor.RawTensor {
	result := b.inner.MaxPool1D(input, poolSize)
	b.tape.Record(ops.NewMaxPool1DOp(input, result, poolSize))
	return result
}

// Linear performs x @ W.T + b and records the operation.
func (b *Backend[B]) Linear(input, weight, bias *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Linear(input, weight, bias)
	b.tape.Record(ops.NewLinearOp(input, weight, bias, result))
	return result
}

// ReLU applies max(0, x) and records the operation.
func (b *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.ReLU(x)
	b.tape.Record(ops.NewReLUOp(x, result))
	return result
}

// Reshape reshapes x and records the operation.
func (b *Backend[B]) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(x, shape)
	b.tape.Record(ops.NewReshapeOp(x, result))
	return result
}

// MSE computes the mean squared error and records the operation.
func (b *Backend[B]) MSE(pred, target *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MSE(pred, target)
	b.tape.Record(ops.NewMSEOp(pred, target, result))
	return result
}

// Add adds two tensors. Addition is only used for gradient accumulation,
// so it is not recorded.
func (b *Backend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Add(a, c)
}

// Backward seeds the tape with ones shaped like t and returns the gradient
// of every tensor that t depends on.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := criterion.Forward(model.Forward(x), y)
//	grads := autodiff.Backward(loss, backend)
//	grad := grads[weight.Raw()]
func Backward[K ops.Kernels](t *tensor.Tensor[*Backend[K]], backend *Backend[K]) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.Tape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	outputGrad.Fill(1)

	return tape.Backward(outputGrad, backend.inner)
}
