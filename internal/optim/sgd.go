package optim

import (
	"fmt"

	"github.com/born-ml/convcast/internal/nn"
	"github.com/born-ml/convcast/internal/tensor"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule with momentum:
//
//	v_t = momentum * v_{t-1} + gradient
//	param = param - lr * v_t
//
// Without momentum (momentum = 0) this is param = param - lr * gradient.
type SGD[B tensor.Backend] struct {
	params     []*nn.Parameter[B]
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter[B]]*tensor.Tensor[B]
	backend    B
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer. It panics if momentum is outside [0, 1).
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		panic(fmt.Sprintf("sgd: momentum must be in [0, 1), got %v", config.Momentum))
	}

	return &SGD[B]{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter[B]]*tensor.Tensor[B]),
		backend:    backend,
	}
}

// Step performs a single optimization step.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad := getGradient(param, grads, s.backend)
		if grad == nil {
			continue
		}
		gradData := grad.AsFloat32()
		paramData := param.Tensor().Data()

		if s.momentum == 0 {
			for i := range paramData {
				paramData[i] -= s.lr * gradData[i]
			}
			continue
		}

		vel, ok := s.velocities[param]
		if !ok {
			vel = tensor.Zeros(param.Tensor().Shape(), s.backend)
			s.velocities[param] = vel
		}
		velData := vel.Data()
		for i := range paramData {
			velData[i] = s.momentum*velData[i] + gradData[i]
			paramData[i] -= s.lr * velData[i]
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}

// Name returns "sgd".
func (s *SGD[B]) Name() string {
	return "sgd"
}

// Hyperparameters returns lr and momentum.
func (s *SGD[B]) Hyperparameters() map[string]float64 {
	return map[string]float64{
		"lr":       float64(s.lr),
		"momentum": float64(s.momentum),
	}
}
