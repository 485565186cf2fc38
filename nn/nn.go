// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/convcast/internal/nn"
	"github.com/born-ml/convcast/internal/serialization"
	"github.com/born-ml/convcast/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NumParameters counts the trainable weights of m.
func NumParameters[B tensor.Backend](m Module[B]) int {
	return nn.NumParameters(m)
}

// Layers

// Conv1D represents a 1D convolutional layer.
type Conv1D[B tensor.Backend] = nn.Conv1D[B]

// NewConv1D creates a new 1D convolutional layer with He initialization.
// It panics on non-positive channel counts, kernel or stride.
//
// Example:
//
//	conv := nn.NewConv1D(1, 64, 2, 1, 0, true, rng, backend) // in=1, out=64, kernel=2, stride=1, padding=0
func NewConv1D[B tensor.Backend](
	inChannels, outChannels int,
	kernelSize int,
	stride, padding int,
	useBias bool,
	rng *rand.Rand,
	backend B,
) *Conv1D[B] {
	return nn.NewConv1D(inChannels, outChannels, kernelSize, stride, padding, useBias, rng, backend)
}

// MaxPool1D represents a 1D max pooling layer.
type MaxPool1D[B tensor.Backend] = nn.MaxPool1D[B]

// NewMaxPool1D creates a max pooling layer over poolSize steps.
func NewMaxPool1D[B tensor.Backend](poolSize int, backend B) *MaxPool1D[B] {
	return nn.NewMaxPool1D(poolSize, backend)
}

// Flatten collapses every dimension after the batch.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	layer := nn.NewLinear(128, 50, rng, backend).WithReLU()
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Activation Functions

// ReLU represents the Rectified Linear Unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Containers

// Sequential represents a sequential container of modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Loss Functions

// MSELoss represents the mean squared error criterion.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a new MSE loss.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return nn.NewMSELoss(backend)
}

// Checkpoints

// Header describes a checkpoint.
type Header = serialization.Header

// Save writes the state dict of m to path.
func Save[B tensor.Backend](path string, m Module[B], header Header) error {
	return nn.Save(path, m, header)
}

// Load restores the state dict of m from path and returns the header.
func Load[B tensor.Backend](path string, m Module[B]) (*Header, error) {
	return nn.Load(path, m)
}
