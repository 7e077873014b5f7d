package nn

import (
	"fmt"
)

// VGGExtractor is the VGG-style feature extractor for ASR described in
// https://arxiv.org/pdf/1706.02737.pdf: two conv+ReLU pairs each
// followed by 2x max pooling, downsampling both time and frequency by 4.
//
// The acoustic feature dimension must be a multiple of 13 (MFCC) or 40
// (Fbank); stacked delta/delta-delta features become separate input
// channels. OutDim is 128 * (freqDim/4): 384 for MFCC, 1280 for Fbank.
type VGGExtractor struct {
	InChannel int
	FreqDim   int
	OutDim    int

	conv1a *Conv2D
	conv1b *Conv2D
	conv2a *Conv2D
	conv2b *Conv2D
}

// checkFeatureDim derives (channels, freqDim, outDim) from the acoustic
// feature dimension, failing on dimensions outside both feature families.
func checkFeatureDim(featureDim int) (int, int, int, error) {
	switch {
	case featureDim > 0 && featureDim%13 == 0:
		// MFCC feature
		return featureDim / 13, 13, (13 / 4) * 128, nil
	case featureDim > 0 && featureDim%40 == 0:
		// Fbank feature
		return featureDim / 40, 40, (40 / 4) * 128, nil
	default:
		return 0, 0, 0, fmt.Errorf("acoustic feature dimension for VGG should be 13/26/39 (MFCC) or 40/80/120 (Fbank) but got %d", featureDim)
	}
}

// NewVGGExtractor constructs the extractor for the given acoustic
// feature dimension
func NewVGGExtractor(featureDim int) (*VGGExtractor, error) {
	inChannel, freqDim, outDim, err := checkFeatureDim(featureDim)
	if err != nil {
		return nil, err
	}

	return &VGGExtractor{
		InChannel: inChannel,
		FreqDim:   freqDim,
		OutDim:    outDim,
		conv1a:    NewConv2D(inChannel, 64, 3, 1, 1, ActivationReLU),
		conv1b:    NewConv2D(64, 64, 3, 1, 1, ActivationReLU),
		conv2a:    NewConv2D(64, 128, 3, 1, 1, ActivationReLU),
		conv2b:    NewConv2D(128, 128, 3, 1, 1, ActivationReLU),
	}, nil
}

// viewInput downsamples the length vector by 4, truncates the time axis
// down to a multiple of 4 (trailing remainder frames are dropped, never
// padded) and restacks (batch, time, featureDim) into channel-major
// (batch, channels, time, freqDim).
func (v *VGGExtractor) viewInput(feature []float32, batch, seqLen int, lens []int) ([]float32, int, []int) {
	outLens := make([]int, len(lens))
	for i := range lens {
		outLens[i] = lens[i] / 4
	}

	// Crop sequence so that time % 4 == 0
	ts := seqLen - seqLen%4

	featureDim := v.InChannel * v.FreqDim
	stacked := make([]float32, batch*v.InChannel*ts*v.FreqDim)

	for b := 0; b < batch; b++ {
		for t := 0; t < ts; t++ {
			for c := 0; c < v.InChannel; c++ {
				srcIdx := b*seqLen*featureDim + t*featureDim + c*v.FreqDim
				dstIdx := b*v.InChannel*ts*v.FreqDim + c*ts*v.FreqDim + t*v.FreqDim
				copy(stacked[dstIdx:dstIdx+v.FreqDim], feature[srcIdx:srcIdx+v.FreqDim])
			}
		}
	}

	return stacked, ts, outLens
}

// Forward extracts features from (batch, seqLen, featureDim) input,
// returning (batch, seqLen/4, OutDim) output, its time dimension and
// the downsampled length vector.
func (v *VGGExtractor) Forward(feature []float32, batch, seqLen int, lens []int) ([]float32, int, []int) {
	// (B, T, D) -> (B, CH, T, freq)
	stacked, ts, outLens := v.viewInput(feature, batch, seqLen, lens)

	// Two conv+ReLU pairs, each followed by 2x pooling:
	// both time and frequency halve twice
	out, h, w := v.conv1a.Forward(stacked, batch, ts, v.FreqDim)
	out, h, w = v.conv1b.Forward(out, batch, h, w)
	out, h, w = MaxPool2D(out, batch, 64, h, w)

	out, h, w = v.conv2a.Forward(out, batch, h, w)
	out, h, w = v.conv2b.Forward(out, batch, h, w)
	out, h, w = MaxPool2D(out, batch, 128, h, w)

	// (B, 128, T/4, freq/4) -> (B, T/4, 128 * freq/4)
	outTime := h
	flat := make([]float32, batch*outTime*v.OutDim)
	for b := 0; b < batch; b++ {
		for t := 0; t < outTime; t++ {
			for c := 0; c < 128; c++ {
				srcIdx := b*128*outTime*w + c*outTime*w + t*w
				dstIdx := b*outTime*v.OutDim + t*v.OutDim + c*w
				copy(flat[dstIdx:dstIdx+w], out[srcIdx:srcIdx+w])
			}
		}
	}

	return flat, outTime, outLens
}
