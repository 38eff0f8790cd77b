package ops

import "github.com/born-ml/born-ext/internal/tensor"

// TransposeOp represents a transpose operation.
//
// Forward:
//
//	output = transpose(input, axes)
//
// Backward:
//
//	∂L/∂input = transpose(∂L/∂output, inverse_axes)
type TransposeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	axes   []int // Axes used for forward transpose; empty means reversed
}

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{
		input:  input,
		output: output,
		axes:   append([]int(nil), axes...),
	}
}

// Backward transposes the output gradient with the inverse permutation.
// Reversing the axes is its own inverse.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	if len(op.axes) == 0 {
		return []*tensor.RawTensor{backend.Transpose(outputGrad)}, nil
	}

	inverseAxes := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverseAxes[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverseAxes...)}, nil
}

// Inputs returns the input tensors.
func (op *TransposeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *TransposeOp) Output() *tensor.RawTensor {
	return op.output
}
