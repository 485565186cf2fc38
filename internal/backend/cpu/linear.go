package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/convcast/internal/tensor"
)

func general(r *tensor.RawTensor) blas32.General {
	rows, cols := r.Shape().Rows()
	return blas32.General{Rows: rows, Cols: cols, Stride: cols, Data: r.AsFloat32()}
}

// Linear computes y = x @ W.T + b.
//
// Input shape:  [batch, in_features]
// Weight shape: [out_features, in_features]
// Bias shape:   [out_features] (optional)
// Output shape: [batch, out_features]
func (cpu *CPUBackend) Linear(input, weight, bias *tensor.RawTensor) *tensor.RawTensor {
	inputShape := input.Shape()
	weightShape := weight.Shape()
	if len(inputShape) != 2 || len(weightShape) != 2 {
		panic(fmt.Sprintf("linear: expected 2D input and weight, got %v and %v", inputShape, weightShape))
	}
	if inputShape[1] != weightShape[1] {
		panic(fmt.Sprintf("linear: input features %d != weight features %d", inputShape[1], weightShape[1]))
	}
	batch, outFeatures := inputShape[0], weightShape[0]

	output := cpu.alloc("linear", tensor.Shape{batch, outFeatures})
	blas32.Gemm(blas.NoTrans, blas.Trans, 1, general(input), general(weight), 0, general(output))

	if bias != nil {
		b := bias.AsFloat32()
		if len(b) != outFeatures {
			panic(fmt.Sprintf("linear: bias has %d elements, expected %d", len(b), outFeatures))
		}
		out := output.AsFloat32()
		for i := 0; i < batch; i++ {
			row := out[i*outFeatures : (i+1)*outFeatures]
			for j := range row {
				row[j] += b[j]
			}
		}
	}
	return output
}

// LinearBackward computes the gradients of Linear:
//
//	dX = dY @ W
//	dW = dY.T @ X
//	db = Σ_batch dY
func (cpu *CPUBackend) LinearBackward(input, weight, grad *tensor.RawTensor) (inputGrad, weightGrad, biasGrad *tensor.RawTensor) {
	outFeatures := weight.Shape()[0]

	inputGrad = cpu.alloc("linear backward", input.Shape())
	weightGrad = cpu.alloc("linear backward", weight.Shape())
	biasGrad = cpu.alloc("linear backward", tensor.Shape{outFeatures})

	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, general(grad), general(weight), 0, general(inputGrad))
	blas32.Gemm(blas.Trans, blas.NoTrans, 1, general(grad), general(input), 0, general(weightGrad))

	g := grad.AsFloat32()
	gb := biasGrad.AsFloat32()
	for i := 0; i < len(g); i += outFeatures {
		for j := 0; j < outFeatures; j++ {
			gb[j] += g[i+j]
		}
	}
	return inputGrad, weightGrad, biasGrad
}
