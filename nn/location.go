package nn

import (
	"fmt"
	"math"
)

// LocationAwareAttention scores each key position using the previous
// decode step's attention distribution, run through a learned 1-D
// convolution, in addition to the key and query content. The previous
// attention weights are the component's only mutable state; call
// ResetMem at the start of every new input sequence. The same instance
// must not serve two in-flight decode sequences concurrently.
type LocationAwareAttention struct {
	KernelSize  int
	KernelNum   int
	Dim         int
	NumHead     int
	Temperature float32

	locConv   *Conv1D // heads as channels, length preserving
	locProj   *Linear // kernelNum -> dim, no bias
	genEnergy *Linear // dim -> 1

	// prevAtt holds last step's attention weights [batch, NumHead, tk];
	// nil until the first forward call after a reset
	prevAtt   []float32
	prevBatch int
	prevLen   int
}

// NewLocationAwareAttention constructs the attention. kernelSize is the
// one-sided extent of the location convolution (full kernel covers
// 2*kernelSize+1 positions); kernelNum is its output channel count.
func NewLocationAwareAttention(kernelSize, kernelNum, dim, numHead int, temperature float32) (*LocationAwareAttention, error) {
	if kernelSize < 1 || kernelNum < 1 {
		return nil, fmt.Errorf("location conv needs positive kernel size and count, got size=%d num=%d", kernelSize, kernelNum)
	}
	if dim < 1 || numHead < 1 {
		return nil, fmt.Errorf("attention needs positive dim and head count, got dim=%d heads=%d", dim, numHead)
	}

	return &LocationAwareAttention{
		KernelSize:  kernelSize,
		KernelNum:   kernelNum,
		Dim:         dim,
		NumHead:     numHead,
		Temperature: temperature,
		locConv:     NewConv1D(numHead, kernelNum, 2*kernelSize+1, 1, kernelSize, false),
		locProj:     NewLinear(kernelNum, dim, false),
		genEnergy:   NewLinear(dim, 1, true),
	}, nil
}

// ResetMem clears the previous attention weights. Must be called before
// decoding a new input sequence.
func (a *LocationAwareAttention) ResetMem() {
	a.prevAtt = nil
	a.prevBatch = 0
	a.prevLen = 0
}

// initPrevAtt lazily initializes the location state to a proper
// distribution: uniform 1/len over each item's valid key positions,
// zero beyond.
func initPrevAtt(batch, numHead, tk int, encLen []int) ([]float32, error) {
	if len(encLen) != batch {
		return nil, fmt.Errorf("attention state init needs one valid length per batch item: got %d lengths for batch %d", len(encLen), batch)
	}

	att := make([]float32, batch*numHead*tk)
	for b, sl := range encLen {
		if sl < 1 || sl > tk {
			return nil, fmt.Errorf("valid key length out of range: item %d has length %d with %d key positions", b, sl, tk)
		}
		for n := 0; n < numHead; n++ {
			base := b*numHead*tk + n*tk
			for t := 0; t < sl; t++ {
				att[base+t] = 1.0 / float32(sl)
			}
		}
	}
	return att, nil
}

// Forward computes one decode step.
//
// q: [batch*NumHead, Dim]
// k, v: [batch*NumHead, tk, Dim]
// encLen: per-item valid key lengths; required on the first call after
// a reset (for the uniform state init), ignored afterwards.
// mask: optional [batch*NumHead, tk], true marks invalid key positions.
//
// Returns the context [batch*NumHead, Dim] and the attention weights
// (batch, NumHead, tk), which also become the next step's location
// state. Calling Forward with a batch or key length that mismatches the
// held state is an invalid-state error; ResetMem between independent
// sequences.
func (a *LocationAwareAttention) Forward(q, k, v []float32, batch, tk int, encLen []int, mask []bool) ([]float32, []float32, error) {
	numHead := a.NumHead
	dim := a.Dim

	if a.prevAtt == nil {
		att, err := initPrevAtt(batch, numHead, tk, encLen)
		if err != nil {
			return nil, nil, err
		}
		a.prevAtt = att
		a.prevBatch = batch
		a.prevLen = tk
	} else if a.prevBatch != batch || a.prevLen != tk {
		return nil, nil, fmt.Errorf("stale attention state: held (batch=%d, keys=%d), called with (batch=%d, keys=%d); ResetMem between sequences",
			a.prevBatch, a.prevLen, batch, tk)
	}

	// Location context: conv over the previous attention weights with
	// heads as channels, then a bias-free projection to the attention
	// dimension through tanh.
	// [B, N, tk] -> [B, kernelNum, tk]
	locFeat, _ := a.locConv.Forward(a.prevAtt, batch, tk)

	// [B, kernelNum, tk] -> [B*tk, kernelNum]
	locRows := make([]float32, batch*tk*a.KernelNum)
	for b := 0; b < batch; b++ {
		for t := 0; t < tk; t++ {
			for c := 0; c < a.KernelNum; c++ {
				locRows[(b*tk+t)*a.KernelNum+c] = locFeat[b*a.KernelNum*tk+c*tk+t]
			}
		}
	}

	// [B*tk, kernelNum] -> [B*tk, dim], shared across heads
	locContext := a.locProj.Forward(locRows, batch*tk)
	for i := range locContext {
		locContext[i] = float32(math.Tanh(float64(locContext[i])))
	}

	// Energy per (query, key) pair:
	// tanh(k + q + loc) -> linear -> scalar
	energyIn := make([]float32, batch*numHead*tk*dim)
	for b := 0; b < batch; b++ {
		for n := 0; n < numHead; n++ {
			bn := b*numHead + n
			for t := 0; t < tk; t++ {
				rowIdx := (bn*tk + t) * dim
				for d := 0; d < dim; d++ {
					sum := k[bn*tk*dim+t*dim+d] + q[bn*dim+d] + locContext[(b*tk+t)*dim+d]
					energyIn[rowIdx+d] = float32(math.Tanh(float64(sum)))
				}
			}
		}
	}
	energy := a.genEnergy.Forward(energyIn, batch*numHead*tk)

	// Temperature scaling, masking and softmax over the key-time axis
	attn := softmaxRows(energy, batch*numHead, tk, a.Temperature, mask)

	// Context: attn . v
	output := make([]float32, batch*numHead*dim)
	for bn := 0; bn < batch*numHead; bn++ {
		for d := 0; d < dim; d++ {
			sum := float32(0)
			for t := 0; t < tk; t++ {
				sum += attn[bn*tk+t] * v[bn*tk*dim+t*dim+d]
			}
			output[bn*dim+d] = sum
		}
	}

	// The attention weights become the next step's location state; keep
	// a private copy so the caller cannot alias it
	a.prevAtt = append([]float32(nil), attn...)
	return output, attn, nil
}
