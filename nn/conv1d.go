package nn

import (
	"math"
	"math/rand"
)

// Conv1D is a 1-D convolution over flat [batch][InChannels][seqLen]
// buffers. Kernel layout: [Filters][InChannels][KernelSize].
// Bias is nil when the convolution is constructed without one.
type Conv1D struct {
	InChannels int
	Filters    int
	KernelSize int
	Stride     int
	Padding    int
	Kernel     []float32
	Bias       []float32
}

// NewConv1D initializes a Conv1D with He initialization
func NewConv1D(inChannels, filters, kernelSize, stride, padding int, bias bool) *Conv1D {
	kernelTotal := filters * inChannels * kernelSize
	kernel := make([]float32, kernelTotal)
	stddev := float32(math.Sqrt(2.0 / float64(inChannels*kernelSize)))

	for i := range kernel {
		kernel[i] = float32(rand.NormFloat64()) * stddev
	}

	c := &Conv1D{
		InChannels: inChannels,
		Filters:    filters,
		KernelSize: kernelSize,
		Stride:     stride,
		Padding:    padding,
		Kernel:     kernel,
	}
	if bias {
		c.Bias = make([]float32, filters)
	}
	return c
}

// Forward performs the convolution.
// input shape: [batch][InChannels][seqLen] (flattened)
// Returns the output [batch][Filters][outLen] and outLen.
func (c *Conv1D) Forward(input []float32, batch, seqLen int) ([]float32, int) {
	outLen := (seqLen+2*c.Padding-c.KernelSize)/c.Stride + 1
	output := make([]float32, batch*c.Filters*outLen)

	for b := 0; b < batch; b++ {
		for f := 0; f < c.Filters; f++ {
			for o := 0; o < outLen; o++ {
				var sum float32
				if c.Bias != nil {
					sum = c.Bias[f]
				}

				for ic := 0; ic < c.InChannels; ic++ {
					for k := 0; k < c.KernelSize; k++ {
						inPos := o*c.Stride + k - c.Padding

						if inPos >= 0 && inPos < seqLen {
							inputIdx := b*c.InChannels*seqLen + ic*seqLen + inPos
							kernelIdx := f*c.InChannels*c.KernelSize + ic*c.KernelSize + k
							sum += input[inputIdx] * c.Kernel[kernelIdx]
						}
					}
				}

				output[b*c.Filters*outLen+f*outLen+o] = sum
			}
		}
	}

	return output, outLen
}
