package ops

import "github.com/born-ml/born-ext/internal/tensor"

// MulOp represents an element-wise multiplication operation: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = outputGrad * b
//   - d(a*b)/db = a, so grad_b = outputGrad * a
type MulOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a * b
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		backend.Mul(outputGrad, b),
		backend.Mul(outputGrad, a),
	}, nil
}

// Inputs returns the input tensors [a, b].
func (op *MulOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a * b.
func (op *MulOp) Output() *tensor.RawTensor {
	return op.output
}
