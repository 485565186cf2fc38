package nn

import (
	"fmt"

	"github.com/born-ml/convcast/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The gradient tape identifies a parameter by its *tensor.RawTensor, so
// optimizers update the parameter's buffer in place instead of swapping
// tensors.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	grads := autodiff.Backward(loss, backend)
//	g := grads[weight.Tensor().Raw()]
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[B]
	grad   *tensor.Tensor[B]
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before a backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// load copies the tensor stored under key into p after checking its shape.
func (p *Parameter[B]) load(stateDict map[string]*tensor.RawTensor, key string) error {
	raw, ok := stateDict[key]
	if !ok {
		return fmt.Errorf("missing %s in state dict", key)
	}
	want := p.tensor.Shape()
	if !raw.Shape().Equal(want) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", key, want, raw.Shape())
	}
	copy(p.tensor.Data(), raw.AsFloat32())
	return nil
}
