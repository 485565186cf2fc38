// Package optim implements the optimizers used to train convcast models.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001}, backend)
//
//	backend.Tape().StartRecording()
//	loss := criterion.Forward(model.Forward(x), y)
//	grads := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
//	optimizer.ZeroGrad()
//	backend.Tape().Clear()
package optim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/born-ml/convcast/internal/nn"
	"github.com/born-ml/convcast/internal/tensor"
)

// ErrUnknownOptimizer is returned by New for an unrecognised name.
var ErrUnknownOptimizer = errors.New("unknown optimizer")

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place.
	//
	// grads is the map returned by autodiff.Backward, keyed by the
	// parameter's raw tensor. Parameters without a gradient are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32

	// Name returns the optimizer name as accepted by New.
	Name() string

	// Hyperparameters returns the optimizer settings for checkpoint headers.
	Hyperparameters() map[string]float64
}

// New creates an optimizer by name ("adam" or "sgd") with default
// hyperparameters and the given learning rate (0 keeps the default).
func New[B tensor.Backend](name string, params []*nn.Parameter[B], lr float32, backend B) (Optimizer, error) {
	switch strings.ToLower(name) {
	case "adam", "":
		return NewAdam(params, AdamConfig{LR: lr}, backend), nil
	case "sgd":
		return NewSGD(params, SGDConfig{LR: lr, Momentum: 0.9}, backend), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOptimizer, name)
	}
}

// getGradient retrieves the gradient for a parameter and records it on the
// parameter until the next ZeroGrad. It returns nil if the parameter was not
// part of the recorded computation.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor, backend B) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	grad := grads[param.Tensor().Raw()]
	if grad != nil {
		param.SetGrad(tensor.New(grad, backend))
	}
	return grad
}
