package nn

import (
	"math"
	"math/rand"
)

// gruCell is a gated recurrent unit
// (gates: z=update, r=reset, n=candidate)
type gruCell struct {
	inputSize  int
	hiddenSize int

	weightIH_z []float32 // [hiddenSize x inputSize]
	weightHH_z []float32 // [hiddenSize x hiddenSize]
	biasH_z    []float32 // [hiddenSize]

	weightIH_r []float32
	weightHH_r []float32
	biasH_r    []float32

	weightIH_n []float32
	weightHH_n []float32
	biasH_n    []float32
}

// newGRUCell initializes a GRU cell with Xavier/Glorot initialization
func newGRUCell(inputSize, hiddenSize int) *gruCell {
	c := &gruCell{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
	}

	stdIH := math.Sqrt(2.0 / float64(inputSize+hiddenSize))
	stdHH := math.Sqrt(2.0 / float64(hiddenSize+hiddenSize))

	initIH := func() []float32 {
		w := make([]float32, hiddenSize*inputSize)
		for i := range w {
			w[i] = float32(rand.NormFloat64() * stdIH)
		}
		return w
	}
	initHH := func() []float32 {
		w := make([]float32, hiddenSize*hiddenSize)
		for i := range w {
			w[i] = float32(rand.NormFloat64() * stdHH)
		}
		return w
	}

	c.weightIH_z, c.weightHH_z, c.biasH_z = initIH(), initHH(), make([]float32, hiddenSize)
	c.weightIH_r, c.weightHH_r, c.biasH_r = initIH(), initHH(), make([]float32, hiddenSize)
	c.weightIH_n, c.weightHH_n, c.biasH_n = initIH(), initHH(), make([]float32, hiddenSize)

	return c
}

func (c *gruCell) run(input []float32, batch, seqLen int, lens []int, reverse bool) []float32 {
	inputSize := c.inputSize
	hiddenSize := c.hiddenSize

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

			for h := 0; h < hiddenSize; h++ {
				// z_t = sigmoid(W_iz @ x_t + W_hz @ h_{t-1} + b_z)
				zSum := c.biasH_z[h]
				// r_t = sigmoid(W_ir @ x_t + W_hr @ h_{t-1} + b_r)
				rSum := c.biasH_r[h]
				for i := 0; i < inputSize; i++ {
					x := input[inputIdx+i]
					zSum += c.weightIH_z[h*inputSize+i] * x
					rSum += c.weightIH_r[h*inputSize+i] * x
				}
				for hPrev := 0; hPrev < hiddenSize; hPrev++ {
					hp := hidden[hPrev]
					zSum += c.weightHH_z[h*hiddenSize+hPrev] * hp
					rSum += c.weightHH_r[h*hiddenSize+hPrev] * hp
				}
				zGate := sigmoid(zSum)
				rGate := sigmoid(rSum)

				// n_t = tanh(W_in @ x_t + r_t * (W_hn @ h_{t-1}) + b_n)
				nSum := c.biasH_n[h]
				for i := 0; i < inputSize; i++ {
					nSum += c.weightIH_n[h*inputSize+i] * input[inputIdx+i]
				}
				hSum := float32(0)
				for hPrev := 0; hPrev < hiddenSize; hPrev++ {
					hSum += c.weightHH_n[h*hiddenSize+hPrev] * hidden[hPrev]
				}
				nGate := float32(math.Tanh(float64(nSum + rGate*hSum)))

				// h_t = (1 - z_t) * n_t + z_t * h_{t-1}
				next[h] = (1.0-zGate)*nGate + zGate*hidden[h]
			}

			hidden, next = next, hidden

			outputIdx := b*seqLen*hiddenSize + t*hiddenSize
			copy(output[outputIdx:outputIdx+hiddenSize], hidden)
		}
	}

	return output
}
