package nn

import (
	"fmt"
)

// RNNLayer wraps one recurrent layer with optional layer normalization,
// dropout and post-recurrence time-downsampling.
//
// OutDim is the feature width the layer exposes downstream: the cell
// hidden size, doubled when bidirectional, and further multiplied by
// SampleRate when downsampling with SampleConcat (concat packs that
// many consecutive timesteps' features into one).
type RNNLayer struct {
	InDim         int
	Hidden        int
	Cell          CellType
	Bidirectional bool
	Dropout       float32
	LayerNorm     bool
	SampleRate    int
	SampleStyle   SampleStyle
	OutDim        int

	fwd recurrentCell
	bwd recurrentCell
	ln  *LayerNorm
}

// NewRNNLayer constructs an RNNLayer. Invalid parameter combinations
// (unknown cell family, unsupported sample style, dropout outside
// [0, 1)) fail here, not at first use.
func NewRNNLayer(inDim int, cell CellType, hidden int, bidirectional bool,
	dropout float32, layerNorm bool, sampleRate int, sampleStyle SampleStyle) (*RNNLayer, error) {

	if inDim <= 0 || hidden <= 0 {
		return nil, fmt.Errorf("rnn layer needs positive dimensions, got inDim=%d hidden=%d", inDim, hidden)
	}
	if sampleStyle != SampleDrop && sampleStyle != SampleConcat {
		return nil, fmt.Errorf("unsupported sample style: %d", sampleStyle)
	}
	if dropout < 0 || dropout >= 1 {
		return nil, fmt.Errorf("dropout must be in [0, 1), got %v", dropout)
	}
	if sampleRate < 1 {
		return nil, fmt.Errorf("sample rate must be >= 1, got %d", sampleRate)
	}

	rnnOutDim := hidden
	if bidirectional {
		rnnOutDim = 2 * hidden
	}
	outDim := rnnOutDim
	if sampleRate > 1 && sampleStyle == SampleConcat {
		outDim = sampleRate * rnnOutDim
	}

	layer := &RNNLayer{
		InDim:         inDim,
		Hidden:        hidden,
		Cell:          cell,
		Bidirectional: bidirectional,
		Dropout:       dropout,
		LayerNorm:     layerNorm,
		SampleRate:    sampleRate,
		SampleStyle:   sampleStyle,
		OutDim:        outDim,
	}

	var err error
	layer.fwd, err = newCell(cell, inDim, hidden)
	if err != nil {
		return nil, err
	}
	if bidirectional {
		layer.bwd, err = newCell(cell, inDim, hidden)
		if err != nil {
			return nil, err
		}
	}
	if layerNorm {
		layer.ln = NewLayerNorm(rnnOutDim)
	}

	return layer, nil
}

// Forward runs the recurrence over input [batch, seqLen, InDim] honoring
// per-item valid lengths, then applies normalization, dropout and
// downsampling as configured. It returns the transformed tensor, its
// time dimension and the updated length vector (the input lens slice is
// not mutated). Output rows beyond an item's valid length are zero and
// must be ignored downstream.
func (r *RNNLayer) Forward(input []float32, batch, seqLen int, lens []int, training bool) ([]float32, int, []int) {
	rnnOutDim := r.Hidden
	if r.Bidirectional {
		rnnOutDim = 2 * r.Hidden
	}

	// Recurrent pass
	fwdOut := r.fwd.run(input, batch, seqLen, lens, false)

	var output []float32
	if r.Bidirectional {
		bwdOut := r.bwd.run(input, batch, seqLen, lens, true)

		// Concat both directions per timestep:
		// [batch, seqLen, hidden] x2 -> [batch, seqLen, 2*hidden]
		output = make([]float32, batch*seqLen*rnnOutDim)
		for b := 0; b < batch; b++ {
			for t := 0; t < seqLen; t++ {
				srcIdx := b*seqLen*r.Hidden + t*r.Hidden
				dstIdx := b*seqLen*rnnOutDim + t*rnnOutDim
				copy(output[dstIdx:dstIdx+r.Hidden], fwdOut[srcIdx:srcIdx+r.Hidden])
				copy(output[dstIdx+r.Hidden:dstIdx+rnnOutDim], bwdOut[srcIdx:srcIdx+r.Hidden])
			}
		}
	} else {
		output = fwdOut
	}

	// Normalizations
	if r.LayerNorm {
		output = r.ln.Forward(output, batch*seqLen)
	}
	if r.Dropout > 0 {
		output = ApplyDropout(output, r.Dropout, training)
	}

	outLens := make([]int, len(lens))
	copy(outLens, lens)

	// Perform downsampling
	outTime := seqLen
	if r.SampleRate > 1 {
		for i := range outLens {
			outLens[i] /= r.SampleRate
		}
		output, outTime = downsample(output, batch, seqLen, rnnOutDim, r.SampleRate, r.SampleStyle)
	}

	return output, outTime, outLens
}

// downsample reduces the time axis of a [batch, seqLen, dim] tensor by
// rate. SampleDrop keeps every rate-th timestep; SampleConcat truncates
// the trailing timesteps not forming a full group, then merges each
// group of rate consecutive timesteps into one row of width dim*rate.
func downsample(input []float32, batch, seqLen, dim, rate int, style SampleStyle) ([]float32, int) {
	if style == SampleDrop {
		// ceil(seqLen/rate) timesteps survive
		outTime := (seqLen + rate - 1) / rate
		output := make([]float32, batch*outTime*dim)

		for b := 0; b < batch; b++ {
			for ot := 0; ot < outTime; ot++ {
				srcIdx := b*seqLen*dim + ot*rate*dim
				dstIdx := b*outTime*dim + ot*dim
				copy(output[dstIdx:dstIdx+dim], input[srcIdx:srcIdx+dim])
			}
		}
		return output, outTime
	}

	// SampleConcat: drop the remainder frames, never pad
	outTime := seqLen / rate
	outDim := dim * rate
	output := make([]float32, batch*outTime*outDim)

	for b := 0; b < batch; b++ {
		for ot := 0; ot < outTime; ot++ {
			dstIdx := b*outTime*outDim + ot*outDim
			for g := 0; g < rate; g++ {
				srcIdx := b*seqLen*dim + (ot*rate+g)*dim
				copy(output[dstIdx+g*dim:dstIdx+(g+1)*dim], input[srcIdx:srcIdx+dim])
			}
		}
	}
	return output, outTime
}
