package nn

import (
	"math"
	"math/rand"
)

// Conv2D is a 2-D convolution over flat NCHW buffers.
// Kernel layout: [Filters][InChannels][KernelSize][KernelSize].
type Conv2D struct {
	InChannels int
	Filters    int
	KernelSize int
	Stride     int
	Padding    int
	Activation ActivationType
	Kernel     []float32
	Bias       []float32
}

// NewConv2D initializes a Conv2D with He initialization
func NewConv2D(inChannels, filters, kernelSize, stride, padding int, activation ActivationType) *Conv2D {
	kernelTotal := filters * inChannels * kernelSize * kernelSize
	kernel := make([]float32, kernelTotal)
	stddev := float32(math.Sqrt(2.0 / float64(inChannels*kernelSize*kernelSize)))

	for i := range kernel {
		kernel[i] = float32(rand.NormFloat64()) * stddev
	}

	// Biases initialized to zero
	bias := make([]float32, filters)

	return &Conv2D{
		InChannels: inChannels,
		Filters:    filters,
		KernelSize: kernelSize,
		Stride:     stride,
		Padding:    padding,
		Activation: activation,
		Kernel:     kernel,
		Bias:       bias,
	}
}

// Forward performs the convolution.
// input shape: [batch][InChannels][height][width] (flattened)
// Returns the output [batch][Filters][outH][outW] and its spatial dims.
func (c *Conv2D) Forward(input []float32, batch, height, width int) ([]float32, int, int) {
	kSize := c.KernelSize
	outH := (height+2*c.Padding-kSize)/c.Stride + 1
	outW := (width+2*c.Padding-kSize)/c.Stride + 1

	output := make([]float32, batch*c.Filters*outH*outW)

	for b := 0; b < batch; b++ {
		for f := 0; f < c.Filters; f++ {
			for oh := 0; oh < outH; oh++ {
				for ow := 0; ow < outW; ow++ {
					sum := c.Bias[f]

					// Convolve over input channels
					for ic := 0; ic < c.InChannels; ic++ {
						for kh := 0; kh < kSize; kh++ {
							for kw := 0; kw < kSize; kw++ {
								ih := oh*c.Stride + kh - c.Padding
								iw := ow*c.Stride + kw - c.Padding

								if ih >= 0 && ih < height && iw >= 0 && iw < width {
									inputIdx := b*c.InChannels*height*width + ic*height*width + ih*width + iw
									kernelIdx := f*c.InChannels*kSize*kSize + ic*kSize*kSize + kh*kSize + kw
									sum += input[inputIdx] * c.Kernel[kernelIdx]
								}
							}
						}
					}

					outputIdx := b*c.Filters*outH*outW + f*outH*outW + oh*outW + ow
					output[outputIdx] = activate(sum, c.Activation)
				}
			}
		}
	}

	return output, outH, outW
}

// MaxPool2D applies 2x2 max pooling with stride 2 over flat NCHW data.
// Odd trailing rows/columns are dropped. Returns the pooled buffer and
// its spatial dims.
func MaxPool2D(input []float32, batch, channels, height, width int) ([]float32, int, int) {
	outH := height / 2
	outW := width / 2

	output := make([]float32, batch*channels*outH*outW)

	for b := 0; b < batch; b++ {
		for ch := 0; ch < channels; ch++ {
			for oh := 0; oh < outH; oh++ {
				for ow := 0; ow < outW; ow++ {
					base := b*channels*height*width + ch*height*width
					ih := oh * 2
					iw := ow * 2

					m := input[base+ih*width+iw]
					if v := input[base+ih*width+iw+1]; v > m {
						m = v
					}
					if v := input[base+(ih+1)*width+iw]; v > m {
						m = v
					}
					if v := input[base+(ih+1)*width+iw+1]; v > m {
						m = v
					}

					output[b*channels*outH*outW+ch*outH*outW+oh*outW+ow] = m
				}
			}
		}
	}

	return output, outH, outW
}
