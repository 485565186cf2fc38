package cpu

import (
	"fmt"

	"github.com/born-ml/convcast/internal/tensor"
)

// MaxPool1D takes the maximum over non-overlapping windows of poolSize steps.
//
// Input shape:  [batch, steps, channels]
// Output shape: [batch, steps/poolSize, channels]
//
// Trailing steps that do not fill a whole window are dropped.
func (cpu *CPUBackend) MaxPool1D(input *tensor.RawTensor, poolSize int) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("maxpool1d: input must be 3D [N,L,C], got %dD", len(shape)))
	}
	N, L, C := shape[0], shape[1], shape[2]
	if poolSize <= 0 || L/poolSize == 0 {
		panic(fmt.Sprintf("maxpool1d: pool size %d does not fit %d steps", poolSize, L))
	}
	LOut := L / poolSize

	output := cpu.alloc("maxpool1d", tensor.Shape{N, LOut, C})
	out := output.AsFloat32()
	in := input.AsFloat32()
	for n := 0; n < N; n++ {
		for o := 0; o < LOut; o++ {
			for c := 0; c < C; c++ {
				out[(n*LOut+o)*C+c] = in[(n*L+o*poolSize)*C+c]
				for p := 1; p < poolSize; p++ {
					if v := in[(n*L+o*poolSize+p)*C+c]; v > out[(n*LOut+o)*C+c] {
						out[(n*LOut+o)*C+c] = v
					}
				}
			}
		}
	}
	return output
}

// MaxPool1DBackward routes each output gradient to the first position that
// held the window maximum in the forward pass.
func (cpu *CPUBackend) MaxPool1DBackward(input, grad *tensor.RawTensor, poolSize int) *tensor.RawTensor {
	shape := input.Shape()
	N, L, C := shape[0], shape[1], shape[2]
	LOut := grad.Shape()[1]

	inputGrad := cpu.alloc("maxpool1d backward", shape)
	gi := inputGrad.AsFloat32()
	in := input.AsFloat32()
	g := grad.AsFloat32()
	for n := 0; n < N; n++ {
		for o := 0; o < LOut; o++ {
			for c := 0; c < C; c++ {
				best := (n*L + o*poolSize) * C
				for p := 1; p < poolSize; p++ {
					idx := (n*L+o*poolSize+p)*C + c
					if in[idx] > in[best+c] {
						best = idx - c
					}
				}
				gi[best+c] += g[(n*LOut+o)*C+c]
			}
		}
	}
	return inputGrad
}
