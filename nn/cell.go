package nn

import (
	"fmt"
)

// recurrentCell runs one recurrent direction over a full sequence.
//
// input shape: [batch, seqLen, inputSize] (flattened); lens holds each
// item's valid length (nil means every item spans seqLen). Timesteps at
// or beyond an item's valid length neither update the hidden state nor
// produce output; their output rows stay zero. When reverse is true the
// recurrence starts at the item's last valid timestep and walks back.
//
// Output shape: [batch, seqLen, hiddenSize].
type recurrentCell interface {
	run(input []float32, batch, seqLen int, lens []int, reverse bool) []float32
}

// newCell resolves the cell family at construction time
func newCell(cell CellType, inputSize, hiddenSize int) (recurrentCell, error) {
	switch cell {
	case CellSimple:
		return newSimpleCell(inputSize, hiddenSize), nil
	case CellLSTM:
		return newLSTMCell(inputSize, hiddenSize), nil
	case CellGRU:
		return newGRUCell(inputSize, hiddenSize), nil
	default:
		return nil, fmt.Errorf("unsupported recurrent cell: %d", cell)
	}
}

// validLen clamps an item's valid length to the sequence bounds
func validLen(lens []int, b, seqLen int) int {
	if lens == nil {
		return seqLen
	}
	n := lens[b]
	if n > seqLen {
		n = seqLen
	}
	if n < 0 {
		n = 0
	}
	return n
}
