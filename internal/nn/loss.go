package nn

import (
	"fmt"

	"github.com/born-ml/convcast/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// Example:
//
//	criterion := nn.NewMSELoss(backend)
//	loss := criterion.Forward(model.Forward(x), y)
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{backend: backend}
}

// Forward computes the loss as a [1] tensor. When the backend records a
// tape, the loss is differentiable with respect to predictions.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[B]) *tensor.Tensor[B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("MSELoss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape()))
	}
	return tensor.New(m.backend.MSE(predictions.Raw(), targets.Raw()), m.backend)
}
