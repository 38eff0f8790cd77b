package userfunc

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

// UserTimesOpName is the operator type of UserTimes.
const UserTimesOpName = "UserTimesFunction"

// UserTimes computes out = left @ right.
//
// Backward pass:
//   - dLeft = outputGrad @ right^T
//   - dRight = left^T @ outputGrad
type UserTimes struct {
	graph.Base
}

// timesState keeps the forward operands for the backward pass.
type timesState struct {
	left, right *tensor.RawTensor
}

// NewUserTimes creates a UserTimes function over two operands.
func NewUserTimes(operands []*graph.Variable, attributes graph.Dictionary, name string) (*UserTimes, error) {
	outShape, dtype, err := checkMatMulOperands(UserTimesOpName, operands)
	if err != nil {
		return nil, err
	}
	return &UserTimes{
		Base: graph.NewBase(UserTimesOpName, operands, attributes, name, outShape, dtype),
	}, nil
}

// Forward computes left @ right on the backend.
func (f *UserTimes) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) (*tensor.RawTensor, graph.BackPropState, error) {
	if err := graph.CheckValues(f, inputs); err != nil {
		return nil, nil, err
	}
	left, right := inputs[0], inputs[1]
	out := backend.MatMul(left, right)
	return out, &timesState{left: left, right: right}, nil
}

// Backward computes the gradients of both operands.
func (f *UserTimes) Backward(state graph.BackPropState, outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	st, ok := state.(*timesState)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected backprop state %T", UserTimesOpName, state)
	}
	inputs := f.Inputs()
	grads := make([]*tensor.RawTensor, 2)

	if inputs[0].NeedsGradient() {
		grads[0] = backend.MatMul(outputGrad, backend.Transpose(st.right))
	}
	if inputs[1].NeedsGradient() {
		grads[1] = backend.MatMul(backend.Transpose(st.left), outputGrad)
	}
	return grads, nil
}

// Clone builds a UserTimes over new operands with the same attributes and name.
func (f *UserTimes) Clone(inputs []*graph.Variable) (graph.Function, error) {
	clone, err := NewUserTimes(inputs, f.Attributes(), f.Name())
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// checkMatMulOperands validates a [M, K] x [K, N] operand pair and returns the
// output shape and dtype.
func checkMatMulOperands(opName string, operands []*graph.Variable) (tensor.Shape, tensor.DataType, error) {
	if err := graph.CheckOperands(opName, operands, 2); err != nil {
		return nil, 0, err
	}
	left, right := operands[0], operands[1]
	ls, rs := left.Shape(), right.Shape()

	if len(ls) != 2 || len(rs) != 2 {
		return nil, 0, fmt.Errorf("%s: operands must be 2D, got %s and %s: %w", opName, ls, rs, graph.ErrShapeMismatch)
	}
	for _, s := range []tensor.Shape{ls, rs} {
		if err := s.Validate(); err != nil {
			return nil, 0, fmt.Errorf("%s: operand shape %s: %w: %w", opName, s, err, graph.ErrShapeMismatch)
		}
	}
	if ls[1] != rs[0] {
		return nil, 0, fmt.Errorf("%s: inner dimensions differ, %s x %s: %w", opName, ls, rs, graph.ErrShapeMismatch)
	}
	if left.DType() != right.DType() {
		return nil, 0, fmt.Errorf("%s: operand dtypes %s and %s: %w", opName, left.DType(), right.DType(), graph.ErrDTypeMismatch)
	}
	return tensor.Shape{ls[0], rs[1]}, left.DType(), nil
}
