package ops

import "github.com/born-ml/born-ext/internal/tensor"

// SumOp represents the reduction of all elements to a scalar.
// d(sum x)/dx_i = 1, so the input gradient is the scalar gradient broadcast
// to the input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar output gradient.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	g := outputGrad.Float64s()[0]
	grad, err := tensor.Full(op.input.Shape(), g, op.input.DType(), backend.Device())
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{grad}, nil
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the scalar output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
