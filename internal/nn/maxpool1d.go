package nn

import (
	"fmt"

	"github.com/born-ml/convcast/internal/tensor"
)

// MaxPool1D takes the maximum over non-overlapping windows of poolSize
// steps. It has no learnable parameters.
//
// Input shape:  [batch, steps, channels]
// Output shape: [batch, steps/poolSize, channels]
//
// Trailing steps that do not fill a window are dropped.
type MaxPool1D[B tensor.Backend] struct {
	stateless[B]
	poolSize int
	backend  B
}

// NewMaxPool1D creates a new 1D max pooling layer. It panics if poolSize
// is not positive.
func NewMaxPool1D[B tensor.Backend](poolSize int, backend B) *MaxPool1D[B] {
	if poolSize <= 0 {
		panic(fmt.Sprintf("maxpool1d: invalid pool size %d", poolSize))
	}
	return &MaxPool1D[B]{poolSize: poolSize, backend: backend}
}

// Forward performs the forward pass.
func (m *MaxPool1D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("maxpool1d: expected 3D input [N,L,C], got %dD", len(shape)))
	}
	if shape[1] < m.poolSize {
		panic(fmt.Sprintf("maxpool1d: %d steps shorter than pool size %d", shape[1], m.poolSize))
	}
	return tensor.New(m.backend.MaxPool1D(input.Raw(), m.poolSize), m.backend)
}

// OutputSteps returns the output length for an input of the given length.
func (m *MaxPool1D[B]) OutputSteps(steps int) int {
	return steps / m.poolSize
}

// String returns a string representation of the layer.
func (m *MaxPool1D[B]) String() string {
	return fmt.Sprintf("MaxPool1D(pool_size=%d)", m.poolSize)
}
