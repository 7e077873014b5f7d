package nn

import (
	"math/rand"
	"time"
)

// dropoutRand is a package-level random number generator for dropout
var dropoutRand *rand.Rand

// SetDropoutSeed sets the random seed for dropout (useful for testing)
func SetDropoutSeed(seed int64) {
	dropoutRand = rand.New(rand.NewSource(seed))
}

// ApplyDropout randomly zeros elements with probability p, scaling the
// survivors by 1/(1-p) (inverted dropout). When training is false or
// p == 0 the input is returned unchanged.
func ApplyDropout(input []float32, p float32, training bool) []float32 {
	if !training || p == 0 {
		return input
	}

	if dropoutRand == nil {
		dropoutRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	output := make([]float32, len(input))
	scale := 1.0 / (1.0 - p)

	for i := range input {
		if dropoutRand.Float32() >= p {
			output[i] = input[i] * scale
		}
	}

	return output
}
