// Package ops defines the operations recorded on the gradient tape.
//
// Each operation implements the Operation interface, which provides:
//   - Forward pass: computed by the backend
//   - Backward pass: computes gradients for inputs given output gradient
//
// Supported operations:
//   - AddOp: element-wise addition (d(a+b)/da = 1, d(a+b)/db = 1)
//   - SubOp: element-wise subtraction
//   - MulOp: element-wise multiplication (d(a*b)/da = b, d(a*b)/db = a)
//   - MulScalarOp: multiplication by a constant
//   - MatMulOp: matrix multiplication (d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad)
//   - TransposeOp: axis permutation
//   - SumOp: reduction to a scalar
//   - UserFunctionOp: a graph.Function such as a native user function
package ops

import "github.com/born-ml/born-ext/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor; a nil
	// entry means no gradient flows to that input.
	//
	// Example for AddOp:
	//   inputs: [a, b]
	//   outputGrad: dL/d(a+b)
	//   returns: [dL/d(a+b), dL/d(a+b)] (gradient flows equally to both inputs)
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error)

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
