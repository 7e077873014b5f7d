package nn

import (
	"math"
	"math/rand"
)

// lstmCell is a four-gate LSTM cell
// (gates: i=input, f=forget, g=cell candidate, o=output)
type lstmCell struct {
	inputSize  int
	hiddenSize int

	weightIH_i []float32 // [hiddenSize x inputSize]
	weightHH_i []float32 // [hiddenSize x hiddenSize]
	biasH_i    []float32 // [hiddenSize]

	weightIH_f []float32
	weightHH_f []float32
	biasH_f    []float32

	weightIH_g []float32
	weightHH_g []float32
	biasH_g    []float32

	weightIH_o []float32
	weightHH_o []float32
	biasH_o    []float32
}

// newLSTMCell initializes an LSTM cell with Xavier/Glorot initialization.
// The forget gate bias starts at 1.0 so the cell remembers by default.
func newLSTMCell(inputSize, hiddenSize int) *lstmCell {
	c := &lstmCell{
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

	c.weightIH_i, c.weightHH_i, c.biasH_i = initIH(), initHH(), make([]float32, hiddenSize)
	c.weightIH_f, c.weightHH_f, c.biasH_f = initIH(), initHH(), make([]float32, hiddenSize)
	c.weightIH_g, c.weightHH_g, c.biasH_g = initIH(), initHH(), make([]float32, hiddenSize)
	c.weightIH_o, c.weightHH_o, c.biasH_o = initIH(), initHH(), make([]float32, hiddenSize)

	// Forget gate bias = 1.0
	for i := range c.biasH_f {
		c.biasH_f[i] = 1.0
	}

	return c
}

// gate computes sigmoid-or-tanh(W_ih @ x_t + W_hh @ h_{t-1} + b) for one unit
func lstmGate(wih, whh, bias, input, hidden []float32, inputIdx, h, inputSize, hiddenSize int) float32 {
	sum := bias[h]
	for i := 0; i < inputSize; i++ {
		sum += wih[h*inputSize+i] * input[inputIdx+i]
	}
	for hPrev := 0; hPrev < hiddenSize; hPrev++ {
		sum += whh[h*hiddenSize+hPrev] * hidden[hPrev]
	}
	return sum
}

func (c *lstmCell) run(input []float32, batch, seqLen int, lens []int, reverse bool) []float32 {
	inputSize := c.inputSize
	hiddenSize := c.hiddenSize

	output := make([]float32, batch*seqLen*hiddenSize)

	for b := 0; b < batch; b++ {
		n := validLen(lens, b, seqLen)

		// h_0 = 0, c_0 = 0
		hidden := make([]float32, hiddenSize)
		cell := make([]float32, hiddenSize)
		nextHidden := make([]float32, hiddenSize)
		nextCell := make([]float32, hiddenSize)

		for step := 0; step < n; step++ {
			t := step
			if reverse {
				t = n - 1 - step
			}
			inputIdx := b*seqLen*inputSize + t*inputSize

			for h := 0; h < hiddenSize; h++ {
				// i_t = sigmoid(W_ii @ x_t + W_hi @ h_{t-1} + b_i)
				iGate := sigmoid(lstmGate(c.weightIH_i, c.weightHH_i, c.biasH_i, input, hidden, inputIdx, h, inputSize, hiddenSize))
				// f_t = sigmoid(W_if @ x_t + W_hf @ h_{t-1} + b_f)
				fGate := sigmoid(lstmGate(c.weightIH_f, c.weightHH_f, c.biasH_f, input, hidden, inputIdx, h, inputSize, hiddenSize))
				// g_t = tanh(W_ig @ x_t + W_hg @ h_{t-1} + b_g)
				gGate := float32(math.Tanh(float64(lstmGate(c.weightIH_g, c.weightHH_g, c.biasH_g, input, hidden, inputIdx, h, inputSize, hiddenSize))))
				// o_t = sigmoid(W_io @ x_t + W_ho @ h_{t-1} + b_o)
				oGate := sigmoid(lstmGate(c.weightIH_o, c.weightHH_o, c.biasH_o, input, hidden, inputIdx, h, inputSize, hiddenSize))

				// c_t = f_t * c_{t-1} + i_t * g_t
				nextCell[h] = fGate*cell[h] + iGate*gGate
				// h_t = o_t * tanh(c_t)
				nextHidden[h] = oGate * float32(math.Tanh(float64(nextCell[h])))
			}

			hidden, nextHidden = nextHidden, hidden
			cell, nextCell = nextCell, cell

			outputIdx := b*seqLen*hiddenSize + t*hiddenSize
			copy(output[outputIdx:outputIdx+hiddenSize], hidden)
		}
	}

	return output
}
