package nn

import (
	"math"
	"testing"
)

// TestLocationInitUniform verifies the lazy state init is a proper
// distribution over each item's valid key positions
func TestLocationInitUniform(t *testing.T) {
	att, err := initPrevAtt(1, 2, 5, []int{3})
	if err != nil {
		t.Fatal(err)
	}

	for n := 0; n < 2; n++ {
		head := att[n*5 : (n+1)*5]
		if s := Sum(head[:3]); math.Abs(float64(s)-1.0) > 1e-6 {
			t.Errorf("head %d: expected valid positions summing to 1, got %f", n, s)
		}
		for _, i := range []int{3, 4} {
			if head[i] != 0 {
				t.Errorf("head %d: expected 0 beyond valid length at %d, got %f", n, i, head[i])
			}
		}
		for i := 0; i < 3; i++ {
			if math.Abs(float64(head[i])-1.0/3.0) > 1e-6 {
				t.Errorf("head %d: expected uniform 1/3 at %d, got %f", n, i, head[i])
			}
		}
	}
}

// TestLocationInitErrors verifies the state init rejects missing or
// out-of-range valid lengths
func TestLocationInitErrors(t *testing.T) {
	if _, err := initPrevAtt(2, 1, 5, []int{3}); err == nil {
		t.Error("expected error for length count != batch")
	}
	if _, err := initPrevAtt(1, 1, 5, []int{0}); err == nil {
		t.Error("expected error for zero valid length")
	}
	if _, err := initPrevAtt(1, 1, 5, []int{6}); err == nil {
		t.Error("expected error for valid length beyond key count")
	}
}

// locationFixture builds a small attention and matching q/k/v buffers
func locationFixture(t *testing.T, batch, tk int) (*LocationAwareAttention, []float32, []float32, []float32) {
	t.Helper()
	const numHead, dim = 2, 3

	att, err := NewLocationAwareAttention(2, 4, dim, numHead, float32(math.Sqrt(dim)))
	if err != nil {
		t.Fatal(err)
	}

	q := make([]float32, batch*numHead*dim)
	k := make([]float32, batch*numHead*tk*dim)
	v := make([]float32, batch*numHead*tk*dim)
	for i := range k {
		k[i] = float32((i*3)%7)*0.2 - 0.5
		v[i] = float32(i % 5)
	}
	for i := range q {
		q[i] = float32(i%4) * 0.25
	}
	return att, q, k, v
}

// TestLocationForward verifies shapes, normalization and the stored
// state across two decode steps
func TestLocationForward(t *testing.T) {
	batch, tk := 2, 4
	att, q, k, v := locationFixture(t, batch, tk)

	encLen := []int{4, 3}
	out, attn, err := att.Forward(q, k, v, batch, tk, encLen, nil)
	if err != nil {
		t.Fatalf("first forward: %v", err)
	}

	if len(out) != batch*att.NumHead*att.Dim {
		t.Errorf("expected context size %d, got %d", batch*att.NumHead*att.Dim, len(out))
	}
	if len(attn) != batch*att.NumHead*tk {
		t.Fatalf("expected attention size %d, got %d", batch*att.NumHead*tk, len(attn))
	}
	for bn := 0; bn < batch*att.NumHead; bn++ {
		sum := Sum(attn[bn*tk : (bn+1)*tk])
		if math.Abs(float64(sum)-1.0) > 1e-5 {
			t.Errorf("row %d: expected weights summing to 1, got %f", bn, sum)
		}
	}

	// The returned weights become the next step's location state
	if diff := MaxAbsDiff(att.prevAtt, attn); diff > 0 {
		t.Errorf("stored state differs from returned weights: %g", diff)
	}

	// Second step must not need encLen and must not alias the first
	// step's returned slice
	attn[0] = 99
	_, attn2, err := att.Forward(q, k, v, batch, tk, nil, nil)
	if err != nil {
		t.Fatalf("second forward: %v", err)
	}
	if attn2[0] == 99 {
		t.Error("internal state aliased by caller mutation")
	}
}

// TestLocationStateMismatch verifies a batch change without reset fails
// instead of silently broadcasting
func TestLocationStateMismatch(t *testing.T) {
	tk := 4
	att, q, k, v := locationFixture(t, 4, tk)

	if _, _, err := att.Forward(q, k, v, 4, tk, []int{4, 4, 3, 2}, nil); err != nil {
		t.Fatalf("first forward: %v", err)
	}

	// Same buffers, smaller declared batch: stale state must be caught
	if _, _, err := att.Forward(q, k, v, 2, tk, []int{4, 4}, nil); err == nil {
		t.Fatal("expected stale-state error for batch change without ResetMem")
	}

	// After a reset the new batch size is accepted
	att.ResetMem()
	if _, _, err := att.Forward(q, k, v, 2, tk, []int{4, 4}, nil); err != nil {
		t.Fatalf("forward after reset: %v", err)
	}
}

// TestLocationFirstCallNeedsLengths verifies the lazy init demands
// valid key lengths
func TestLocationFirstCallNeedsLengths(t *testing.T) {
	batch, tk := 1, 4
	att, q, k, v := locationFixture(t, batch, tk)

	if _, _, err := att.Forward(q, k, v, batch, tk, nil, nil); err == nil {
		t.Fatal("expected error for first forward without encLen")
	}
}

// TestLocationMask verifies masked key positions receive ~0 weight
func TestLocationMask(t *testing.T) {
	batch, tk := 1, 4
	att, q, k, v := locationFixture(t, batch, tk)

	mask := make([]bool, batch*att.NumHead*tk)
	for bn := 0; bn < batch*att.NumHead; bn++ {
		// Only key 1 valid
		for i := 0; i < tk; i++ {
			mask[bn*tk+i] = i != 1
		}
	}

	_, attn, err := att.Forward(q, k, v, batch, tk, []int{4}, mask)
	if err != nil {
		t.Fatal(err)
	}
	for bn := 0; bn < batch*att.NumHead; bn++ {
		if math.Abs(float64(attn[bn*tk+1])-1.0) > 1e-4 {
			t.Errorf("row %d: expected all mass on key 1, got %f", bn, attn[bn*tk+1])
		}
	}
}

// TestLocationInvalidConfig verifies constructor validation
func TestLocationInvalidConfig(t *testing.T) {
	if _, err := NewLocationAwareAttention(0, 4, 3, 2, 1); err == nil {
		t.Error("expected error for kernel size 0")
	}
	if _, err := NewLocationAwareAttention(2, 0, 3, 2, 1); err == nil {
		t.Error("expected error for kernel count 0")
	}
	if _, err := NewLocationAwareAttention(2, 4, 0, 2, 1); err == nil {
		t.Error("expected error for dim 0")
	}
	if _, err := NewLocationAwareAttention(2, 4, 3, 0, 1); err == nil {
		t.Error("expected error for head count 0")
	}
}
