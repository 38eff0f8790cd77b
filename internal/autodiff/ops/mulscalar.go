package ops

import "github.com/born-ml/born-ext/internal/tensor"

// MulScalarOp represents output = x * s for a constant s.
type MulScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar any
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(input, output *tensor.RawTensor, scalar any) *MulScalarOp {
	return &MulScalarOp{input: input, output: output, scalar: scalar}
}

// Backward scales the output gradient by the same constant.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}, nil
}

// Inputs returns the input tensor.
func (op *MulScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *MulScalarOp) Output() *tensor.RawTensor {
	return op.output
}
