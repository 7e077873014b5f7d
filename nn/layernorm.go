package nn

import (
	"math"
)

// LayerNorm normalizes each row to zero mean and unit variance, then
// applies a learned scale and shift.
type LayerNorm struct {
	Dim     int
	Gamma   []float32
	Beta    []float32
	Epsilon float64
}

// NewLayerNorm initializes a LayerNorm with gamma=1, beta=0
func NewLayerNorm(dim int) *LayerNorm {
	gamma := make([]float32, dim)
	for i := range gamma {
		gamma[i] = 1.0
	}
	beta := make([]float32, dim)

	return &LayerNorm{Dim: dim, Gamma: gamma, Beta: beta, Epsilon: 1e-5}
}

// Forward normalizes input of shape [rows * Dim] row by row
func (ln *LayerNorm) Forward(input []float32, rows int) []float32 {
	output := make([]float32, len(input))

	for r := 0; r < rows; r++ {
		start := r * ln.Dim
		end := start + ln.Dim

		// Calculate mean
		var sum float64
		for i := start; i < end; i++ {
			sum += float64(input[i])
		}
		mean := sum / float64(ln.Dim)

		// Calculate variance
		var variance float64
		for i := start; i < end; i++ {
			diff := float64(input[i]) - mean
			variance += diff * diff
		}
		variance /= float64(ln.Dim)

		std := math.Sqrt(variance + ln.Epsilon)

		// Normalize and apply learned scale and shift
		for i := 0; i < ln.Dim; i++ {
			idx := start + i
			normalized := (float64(input[idx]) - mean) / std
			output[idx] = float32(normalized)*ln.Gamma[i] + ln.Beta[i]
		}
	}

	return output
}
