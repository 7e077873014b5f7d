package nn

import (
	"math"
	"testing"
)

// TestSoftmaxRows verifies per-row normalization and ordering
func TestSoftmaxRows(t *testing.T) {
	logits := []float32{1, 2, 3, 0, 0, 0}
	out := softmaxRows(logits, 2, 3, 1.0, nil)

	for r := 0; r < 2; r++ {
		sum := Sum(out[r*3 : (r+1)*3])
		if math.Abs(float64(sum)-1.0) > 1e-6 {
			t.Errorf("row %d: expected sum 1, got %f", r, sum)
		}
	}
	if !(out[2] > out[1] && out[1] > out[0]) {
		t.Errorf("expected monotone weights for monotone logits, got %v", out[:3])
	}
	for i := 3; i < 6; i++ {
		if math.Abs(float64(out[i])-1.0/3.0) > 1e-6 {
			t.Errorf("uniform row: expected 1/3 at %d, got %f", i, out[i])
		}
	}
}

// TestSoftmaxMaskFill verifies masked positions receive ~0 weight
func TestSoftmaxMaskFill(t *testing.T) {
	logits := []float32{5, 1, 1}
	mask := []bool{true, false, false}
	out := softmaxRows(logits, 1, 3, 1.0, mask)

	if out[0] > 1e-6 {
		t.Errorf("masked position: expected ~0, got %f", out[0])
	}
	if math.Abs(float64(out[1])-0.5) > 1e-5 || math.Abs(float64(out[2])-0.5) > 1e-5 {
		t.Errorf("expected 0.5/0.5 over unmasked ties, got %v", out)
	}
}

// TestSoftmaxStability verifies large logits do not overflow
func TestSoftmaxStability(t *testing.T) {
	logits := []float32{1000, 1001, 999}
	out := softmaxRows(logits, 1, 3, 1.0, nil)

	sum := Sum(out)
	if math.IsNaN(float64(sum)) || math.Abs(float64(sum)-1.0) > 1e-5 {
		t.Errorf("expected finite normalized weights, got %v", out)
	}
}

// TestSoftmaxTemperature verifies the temperature divisor flattens or
// sharpens the distribution
func TestSoftmaxTemperature(t *testing.T) {
	logits := []float32{0, 1}

	cold := softmaxRows(logits, 1, 2, 0.25, nil)
	hot := softmaxRows(logits, 1, 2, 4.0, nil)

	if cold[1] <= hot[1] {
		t.Errorf("expected low temperature to sharpen: %f vs %f", cold[1], hot[1])
	}

	// Zero temperature falls back to 1.0 rather than dividing by zero
	fallback := softmaxRows(logits, 1, 2, 0, nil)
	plain := softmaxRows(logits, 1, 2, 1.0, nil)
	if diff := MaxAbsDiff(fallback, plain); diff > 1e-7 {
		t.Errorf("expected zero temperature to behave as 1.0, diff %g", diff)
	}
}
