package nn

// ScaleDotAttention computes scaled dot-product attention over a
// key/value sequence. It is stateless; heads are folded into the batch
// dimension of q/k/v and NumHead describes the layout of the returned
// attention weights.
type ScaleDotAttention struct {
	Temperature float32
	NumHead     int
}

// NewScaleDotAttention constructs the attention with a fixed temperature
// (typically sqrt of the key dimension)
func NewScaleDotAttention(temperature float32, numHead int) *ScaleDotAttention {
	return &ScaleDotAttention{Temperature: temperature, NumHead: numHead}
}

// Forward computes attention for tq query steps (tq is 1 during
// decoding).
//
// q: [batch*NumHead, tq, dim]
// k: [batch*NumHead, tk, dim]
// v: [batch*NumHead, tk, dimV]
// mask: optional [batch*NumHead, tq, tk], true marks invalid key
// positions which receive ~0 weight. Every query row must keep at least
// one unmasked key; a fully masked row yields a degenerate distribution.
//
// Returns the context [batch*NumHead, tq, dimV] and the attention
// weights, laid out as (batch, NumHead, tk) when tq == 1.
func (a *ScaleDotAttention) Forward(q, k, v []float32, batchHead, tq, tk, dim, dimV int, mask []bool) ([]float32, []float32) {
	// Raw scores: q . k^T, per head
	// [BN, tq, dim] x [BN, tk, dim] -> [BN, tq, tk]
	scores := make([]float32, batchHead*tq*tk)
	for bn := 0; bn < batchHead; bn++ {
		for qt := 0; qt < tq; qt++ {
			for t := 0; t < tk; t++ {
				sum := float32(0)
				for d := 0; d < dim; d++ {
					sum += q[bn*tq*dim+qt*dim+d] * k[bn*tk*dim+t*dim+d]
				}
				scores[bn*tq*tk+qt*tk+t] = sum
			}
		}
	}

	// Temperature scaling, masking and softmax over the key-time axis
	attn := softmaxRows(scores, batchHead*tq, tk, a.Temperature, mask)

	// Context: attn . v
	// [BN, tq, tk] x [BN, tk, dimV] -> [BN, tq, dimV]
	output := make([]float32, batchHead*tq*dimV)
	for bn := 0; bn < batchHead; bn++ {
		for qt := 0; qt < tq; qt++ {
			for d := 0; d < dimV; d++ {
				sum := float32(0)
				for t := 0; t < tk; t++ {
					sum += attn[bn*tq*tk+qt*tk+t] * v[bn*tk*dimV+t*dimV+d]
				}
				output[bn*tq*dimV+qt*dimV+d] = sum
			}
		}
	}

	return output, attn
}
