// Package nn provides neural network building blocks for speech
// recognition encoders and decoders.
//
// The package contains four top-level components, each a leaf consumed
// by an external model-assembly layer:
//   - VGGExtractor: conv+pool feature extractor that downsamples the
//     time axis by 4x
//   - RNNLayer: recurrent layer wrapper with optional layer norm,
//     dropout and time-downsampling
//   - ScaleDotAttention: single-step scaled dot-product attention
//   - LocationAwareAttention: attention biased by a learned convolution
//     over the previous step's attention weights
//
// All tensors are flat []float32 buffers with explicit dimensions;
// a (batch, time, dim) tensor stores element (b, t, d) at
// b*time*dim + t*dim + d. Sequences carry a per-item length vector
// which every time-downsampling operation updates in lockstep.
//
// Example usage:
//
//	vgg, _ := nn.NewVGGExtractor(40)
//	encoded, encTime, encLen := vgg.Forward(feature, batch, seqLen, lens)
//
//	rnn, _ := nn.NewRNNLayer(vgg.OutDim, nn.CellLSTM, 320, true, 0.1, true, 2, nn.SampleDrop)
//	encoded, encTime, encLen = rnn.Forward(encoded, batch, encTime, encLen, false)
//
// Components are stateless between calls except LocationAwareAttention,
// which holds the previous step's attention weights across decode steps
// and must be reset with ResetMem between utterances.
package nn
