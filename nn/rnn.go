package nn

import (
	"math"
	"math/rand"
)

// simpleCell is a single-gate tanh recurrent cell:
// h_t = tanh(W_ih @ x_t + W_hh @ h_{t-1} + b_h)
type simpleCell struct {
	inputSize  int
	hiddenSize int
	weightIH   []float32 // [hiddenSize x inputSize]
	weightHH   []float32 // [hiddenSize x hiddenSize]
	biasH      []float32 // [hiddenSize]
}

// newSimpleCell initializes a tanh cell with Xavier/Glorot initialization
func newSimpleCell(inputSize, hiddenSize int) *simpleCell {
	c := &simpleCell{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
	}

	stdIH := math.Sqrt(2.0 / float64(inputSize+hiddenSize))
	c.weightIH = make([]float32, hiddenSize*inputSize)
	for i := range c.weightIH {
		c.weightIH[i] = float32(rand.NormFloat64() * stdIH)
	}

	stdHH := math.Sqrt(2.0 / float64(hiddenSize+hiddenSize))
	c.weightHH = make([]float32, hiddenSize*hiddenSize)
	for i := range c.weightHH {
		c.weightHH[i] = float32(rand.NormFloat64() * stdHH)
	}

	// Bias initialization (zeros)
	c.biasH = make([]float32, hiddenSize)

	return c
}

func (c *simpleCell) run(input []float32, batch, seqLen int, lens []int, reverse bool) []float32 {
	inputSize := c.inputSize
	hiddenSize := c.hiddenSize

	// Output: [batch, seqLen, hiddenSize]; invalid timesteps stay zero
	output := make([]float32, batch*seqLen*hiddenSize)

	for b := 0; b < batch; b++ {
		n := validLen(lens, b, seqLen)

		// h_0 = 0
		hidden := make([]float32, hiddenSize)
		next := make([]float32, hiddenSize)

		for step := 0; step < n; step++ {
			t := step
			if reverse {
				t = n - 1 - step
			}
			inputIdx := b*seqLen*inputSize + t*inputSize

			// h_t = tanh(W_ih @ x_t + W_hh @ h_{t-1} + b_h)
			for h := 0; h < hiddenSize; h++ {
				sum := c.biasH[h]
				for i := 0; i < inputSize; i++ {
					sum += c.weightIH[h*inputSize+i] * input[inputIdx+i]
				}
				for hPrev := 0; hPrev < hiddenSize; hPrev++ {
					sum += c.weightHH[h*hiddenSize+hPrev] * hidden[hPrev]
				}
				next[h] = float32(math.Tanh(float64(sum)))
			}

			hidden, next = next, hidden

			outputIdx := b*seqLen*hiddenSize + t*hiddenSize
			copy(output[outputIdx:outputIdx+hiddenSize], hidden)
		}
	}

	return output
}
