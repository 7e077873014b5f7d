package nn

import (
	"math"
	"testing"
)

// TestLayerNormMoments verifies each row comes out with ~zero mean and
// ~unit variance under the default gamma/beta
func TestLayerNormMoments(t *testing.T) {
	ln := NewLayerNorm(4)

	input := []float32{
		1, 2, 3, 4,
		-10, 0, 10, 20,
	}
	out := ln.Forward(input, 2)

	for r := 0; r < 2; r++ {
		row := out[r*4 : (r+1)*4]
		mean := Mean(row)
		if math.Abs(float64(mean)) > 1e-5 {
			t.Errorf("row %d: expected zero mean, got %f", r, mean)
		}

		variance := float32(0)
		for _, v := range row {
			variance += (v - mean) * (v - mean)
		}
		variance /= 4
		if math.Abs(float64(variance)-1.0) > 1e-3 {
			t.Errorf("row %d: expected unit variance, got %f", r, variance)
		}
	}
}

// TestLayerNormAffine verifies the learned scale and shift are applied
func TestLayerNormAffine(t *testing.T) {
	ln := NewLayerNorm(2)
	ln.Gamma = []float32{2, 2}
	ln.Beta = []float32{1, 1}

	out := ln.Forward([]float32{-1, 1}, 1)

	// Normalized row is [-1, 1]; scaled and shifted to [-1, 3]
	if math.Abs(float64(out[0])+1.0) > 1e-3 || math.Abs(float64(out[1])-3.0) > 1e-3 {
		t.Errorf("expected [-1 3], got %v", out)
	}
}

// TestLayerNormConstantRow verifies a constant row maps to beta rather
// than dividing by zero
func TestLayerNormConstantRow(t *testing.T) {
	ln := NewLayerNorm(3)
	out := ln.Forward([]float32{5, 5, 5}, 1)

	for i, v := range out {
		if math.Abs(float64(v)) > 1e-3 {
			t.Errorf("constant row position %d: expected ~0, got %f", i, v)
		}
	}
}
