package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/convcast/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Values are drawn from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
// The caller owns rng, so a fixed seed gives reproducible weights.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return uniform(shape, bound, rng, backend)
}

// He (Kaiming) uniform initialization, U(-sqrt(6/fan_in), sqrt(6/fan_in)).
// Suited to layers followed by ReLU.
func He[B tensor.Backend](fanIn int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn))
	return uniform(shape, bound, rng, backend)
}

// Zeros creates a tensor filled with zeros. Used for biases.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}

func uniform[B tensor.Backend](shape tensor.Shape, bound float64, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // weight init is not security-critical
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return t
}
