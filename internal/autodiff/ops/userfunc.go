package ops

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

// UserFunctionOp records one application of a graph.Function. Backward is
// delegated to the function together with the state its Forward returned.
type UserFunctionOp struct {
	fn     graph.Function
	state  graph.BackPropState
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewUserFunctionOp creates a new UserFunctionOp.
func NewUserFunctionOp(fn graph.Function, state graph.BackPropState, inputs []*tensor.RawTensor, output *tensor.RawTensor) *UserFunctionOp {
	return &UserFunctionOp{
		fn:     fn,
		state:  state,
		inputs: append([]*tensor.RawTensor(nil), inputs...),
		output: output,
	}
}

// Backward calls the function's Backward. Inputs whose variable does not need
// a gradient get nil.
func (op *UserFunctionOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	grads, err := op.fn.Backward(op.state, outputGrad, backend)
	if err != nil {
		return nil, fmt.Errorf("%s %q backward: %w", op.fn.OpName(), op.fn.Name(), err)
	}
	if len(grads) > len(op.inputs) {
		return nil, fmt.Errorf("%s %q backward: %d gradients for %d inputs", op.fn.OpName(), op.fn.Name(), len(grads), len(op.inputs))
	}
	return grads, nil
}

// Function returns the recorded function.
func (op *UserFunctionOp) Function() graph.Function {
	return op.fn
}

// Inputs returns the input values in operand order.
func (op *UserFunctionOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output value.
func (op *UserFunctionOp) Output() *tensor.RawTensor {
	return op.output
}
