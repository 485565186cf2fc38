// Package nn implements the neural network modules of the convcast
// forecaster.
//
// This package provides the building blocks of a small 1D convolutional
// regressor:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Conv1D, MaxPool1D, Flatten, Linear, ReLU layers
//   - MSELoss
//   - Sequential: Container for stacking layers
//
// Layers operate on channels-last tensors: [batch, steps, channels].
package nn

import (
	"github.com/born-ml/convcast/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[B](
//	    nn.NewConv1D(1, 64, 2, 1, 0, true, rng, backend).WithReLU(),
//	    nn.NewFlatten[B](),
//	    nn.NewLinear(64*2, 1, rng, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module, or an
	// empty slice for modules without weights.
	Parameters() []*Parameter[B]

	// StateDict returns the module's tensors keyed by parameter name.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies tensors from stateDict into the module's
	// parameters, validating shapes.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// stateless provides the empty state methods of layers without weights.
type stateless[B tensor.Backend] struct{}

func (stateless[B]) Parameters() []*Parameter[B] { return nil }

func (stateless[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

func (stateless[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// NumParameters returns the number of scalar weights in m.
func NumParameters[B tensor.Backend](m Module[B]) int {
	n := 0
	for _, p := range m.Parameters() {
		n += p.Tensor().NumElements()
	}
	return n
}
