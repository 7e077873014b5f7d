package nn

// ActivationType defines the activation function applied by a kernel
type ActivationType int

const (
	ActivationNone    ActivationType = 0 // identity
	ActivationReLU    ActivationType = 1 // max(0, v)
	ActivationTanh    ActivationType = 2 // tanh(v)
	ActivationSigmoid ActivationType = 3 // 1 / (1 + exp(-v))
)

// CellType selects the recurrent cell family used by an RNNLayer.
// The family is resolved at construction time; there is no runtime
// string dispatch.
type CellType int

const (
	CellSimple CellType = 0 // single tanh gate
	CellLSTM   CellType = 1 // input/forget/cell/output gates
	CellGRU    CellType = 2 // update/reset/candidate gates
)

// String returns the cell family name
func (c CellType) String() string {
	switch c {
	case CellSimple:
		return "rnn"
	case CellLSTM:
		return "lstm"
	case CellGRU:
		return "gru"
	default:
		return "unknown"
	}
}

// SampleStyle selects how RNNLayer downsamples the time axis
type SampleStyle int

const (
	// SampleDrop keeps every sample_rate-th timestep and discards the rest
	SampleDrop SampleStyle = 0
	// SampleConcat merges each group of sample_rate consecutive timesteps
	// into one by concatenating their feature vectors
	SampleConcat SampleStyle = 1
)

// String returns the sample style name
func (s SampleStyle) String() string {
	switch s {
	case SampleDrop:
		return "drop"
	case SampleConcat:
		return "concat"
	default:
		return "unknown"
	}
}
