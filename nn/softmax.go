package nn

import (
	"math"
)

// maskFill is the score assigned to masked positions before the exp
// pass; it is small enough to contribute ~0 weight after softmax.
const maskFill = float32(-1e9)

// softmaxRows applies a numerically stable softmax independently over
// each row of width cols, dividing scores by temperature first.
// mask, when non-nil, has the same layout as logits and marks invalid
// positions with true; those positions receive ~0 weight. A fully
// masked row is a caller contract violation and yields a degenerate
// (uniform) distribution.
func softmaxRows(logits []float32, rows, cols int, temperature float32, mask []bool) []float32 {
	if temperature == 0 {
		temperature = 1.0
	}

	output := make([]float32, len(logits))

	for r := 0; r < rows; r++ {
		start := r * cols

		// Scale by temperature and apply mask
		scaled := make([]float32, cols)
		for i := 0; i < cols; i++ {
			if mask != nil && mask[start+i] {
				scaled[i] = maskFill
			} else {
				scaled[i] = logits[start+i] / temperature
			}
		}

		// Numerical stability: subtract max
		maxScore := scaled[0]
		for _, v := range scaled {
			if v > maxScore {
				maxScore = v
			}
		}

		sum := float32(0)
		for i, v := range scaled {
			e := float32(math.Exp(float64(v - maxScore)))
			output[start+i] = e
			sum += e
		}

		// Normalize
		for i := 0; i < cols; i++ {
			output[start+i] /= sum
		}
	}

	return output
}
