package nn

import (
	"math"
	"math/rand"
)

// Linear is a fully-connected projection over flat buffers.
// Weight layout: [In * Out], element (i, o) at i*Out + o.
// Bias is nil when the projection is constructed without one.
type Linear struct {
	In     int
	Out    int
	Weight []float32
	Bias   []float32
}

// NewLinear initializes a linear projection with He initialization
func NewLinear(in, out int, bias bool) *Linear {
	stddev := float32(math.Sqrt(2.0 / float64(in)))

	weight := make([]float32, in*out)
	for i := range weight {
		weight[i] = float32(rand.NormFloat64()) * stddev
	}

	l := &Linear{In: in, Out: out, Weight: weight}
	if bias {
		// Biases initialized to zero
		l.Bias = make([]float32, out)
	}
	return l
}

// Forward computes output = input @ Weight + Bias
// input: [rows * In], output: [rows * Out]
func (l *Linear) Forward(input []float32, rows int) []float32 {
	output := make([]float32, rows*l.Out)

	for r := 0; r < rows; r++ {
		for o := 0; o < l.Out; o++ {
			sum := float32(0)
			for i := 0; i < l.In; i++ {
				inputIdx := r*l.In + i
				weightIdx := i*l.Out + o
				sum += input[inputIdx] * l.Weight[weightIdx]
			}
			if l.Bias != nil {
				sum += l.Bias[o]
			}
			output[r*l.Out+o] = sum
		}
	}

	return output
}
