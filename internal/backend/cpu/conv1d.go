package cpu

import (
	"fmt"

	"github.com/born-ml/convcast/internal/parallel"
	"github.com/born-ml/convcast/internal/tensor"
)

// Conv1DOutputLen returns the number of output steps of a 1D convolution.
func Conv1DOutputLen(steps, kernel, stride, padding int) int {
	return (steps+2*padding-kernel)/stride + 1
}

// Conv1D performs a channels-last 1D convolution.
//
// Input shape:  [batch, steps, in_channels]
// Weight shape: [out_channels, kernel, in_channels]
// Bias shape:   [out_channels] (optional)
// Output shape: [batch, out_steps, out_channels]
//
//	out[n, o, f] = bias[f] + Σ_k Σ_c weight[f, k, c] * input[n, o*stride+k-padding, c]
//
// Positions that fall into the padding contribute zero. The batch×filters
// grid is split across workers; every output cell has exactly one writer.
func (cpu *CPUBackend) Conv1D(input, weight, bias *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	weightShape := weight.Shape()

	if len(inputShape) != 3 {
		panic(fmt.Sprintf("conv1d: input must be 3D [N,L,C], got %dD", len(inputShape)))
	}
	if len(weightShape) != 3 {
		panic(fmt.Sprintf("conv1d: weight must be 3D [C_out,K,C_in], got %dD", len(weightShape)))
	}
	if stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("conv1d: invalid stride=%d padding=%d", stride, padding))
	}

	N, L, CIn := inputShape[0], inputShape[1], inputShape[2]
	COut, K, CInK := weightShape[0], weightShape[1], weightShape[2]
	if CIn != CInK {
		panic(fmt.Sprintf("conv1d: input channels %d != weight channels %d", CIn, CInK))
	}
	if bias != nil && (len(bias.Shape()) != 1 || bias.Shape()[0] != COut) {
		panic(fmt.Sprintf("conv1d: bias shape %v, expected [%d]", bias.Shape(), COut))
	}

	LOut := Conv1DOutputLen(L, K, stride, padding)
	if LOut <= 0 {
		panic(fmt.Sprintf("conv1d: invalid output length %d (steps=%d kernel=%d stride=%d padding=%d)", LOut, L, K, stride, padding))
	}

	output := cpu.alloc("conv1d", tensor.Shape{N, LOut, COut})
	out := output.AsFloat32()
	in := input.AsFloat32()
	w := weight.AsFloat32()
	var b []float32
	if bias != nil {
		b = bias.AsFloat32()
	}

	parallel.ForGrid(N, COut, func(n, f int) {
		inBase := n * L * CIn
		wBase := f * K * CIn
		for o := 0; o < LOut; o++ {
			var sum float32
			if b != nil {
				sum = b[f]
			}
			for k := 0; k < K; k++ {
				pos := o*stride + k - padding
				if pos < 0 || pos >= L {
					continue
				}
				row := in[inBase+pos*CIn : inBase+(pos+1)*CIn]
				wk := w[wBase+k*CIn : wBase+(k+1)*CIn]
				for c, v := range row {
					sum += v * wk[c]
				}
			}
			out[(n*LOut+o)*COut+f] = sum
		}
	}, cpu.par)

	return output
}

// Conv1DBackward computes the gradients of Conv1D with respect to its input,
// weight and bias. grad has the forward output shape [N, L_out, C_out].
//
// The input gradient is split by batch element and the weight/bias
// gradients by filter, so no two workers accumulate into the same cell.
func (cpu *CPUBackend) Conv1DBackward(
	input, weight, grad *tensor.RawTensor,
	stride, padding int,
) (inputGrad, weightGrad, biasGrad *tensor.RawTensor) {
	inputShape := input.Shape()
	weightShape := weight.Shape()
	gradShape := grad.Shape()

	N, L, CIn := inputShape[0], inputShape[1], inputShape[2]
	COut, K := weightShape[0], weightShape[1]
	LOut := gradShape[1]

	inputGrad = cpu.alloc("conv1d backward", inputShape)
	weightGrad = cpu.alloc("conv1d backward", weightShape)
	biasGrad = cpu.alloc("conv1d backward", tensor.Shape{COut})

	in := input.AsFloat32()
	w := weight.AsFloat32()
	g := grad.AsFloat32()
	gi := inputGrad.AsFloat32()
	gw := weightGrad.AsFloat32()
	gb := biasGrad.AsFloat32()

	parallel.For(N, func(n int) {
		for o := 0; o < LOut; o++ {
			gRow := g[(n*LOut+o)*COut : (n*LOut+o+1)*COut]
			for k := 0; k < K; k++ {
				pos := o*stride + k - padding
				if pos < 0 || pos >= L {
					continue
				}
				dst := gi[(n*L+pos)*CIn : (n*L+pos+1)*CIn]
				for f, gv := range gRow {
					if gv == 0 {
						continue
					}
					wk := w[(f*K+k)*CIn : (f*K+k+1)*CIn]
					for c := range dst {
						dst[c] += gv * wk[c]
					}
				}
			}
		}
	}, cpu.par)

	parallel.For(COut, func(f int) {
		for n := 0; n < N; n++ {
			for o := 0; o < LOut; o++ {
				gv := g[(n*LOut+o)*COut+f]
				if gv == 0 {
					continue
				}
				gb[f] += gv
				for k := 0; k < K; k++ {
					pos := o*stride + k - padding
					if pos < 0 || pos >= L {
						continue
					}
					src := in[(n*L+pos)*CIn : (n*L+pos+1)*CIn]
					dst := gw[(f*K+k)*CIn : (f*K+k+1)*CIn]
					for c, v := range src {
						dst[c] += gv * v
					}
				}
			}
		}
	}, cpu.par)

	return inputGrad, weightGrad, biasGrad
}
