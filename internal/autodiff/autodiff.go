// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation (CPU, GPU, etc.) and adds
// gradient tracking capabilities through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (Add, Mul, MatMul, user functions) implements backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// User functions built by native factories take part through Apply, which runs
// their Forward on the wrapped backend and records their Backward on the tape.
package autodiff

import (
	"github.com/born-ml/born-ext/internal/autodiff/ops"
	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend (CPU, GPU, etc.)
	tape  *GradientTape // Records operations for backpropagation
}

var _ tensor.Backend = (*AutodiffBackend[tensor.Backend])(nil)

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)
	b.tape.Record(ops.NewAddOp(a, c, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(a, c)
	b.tape.Record(ops.NewSubOp(a, c, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.tape.Record(ops.NewMulOp(a, c, result))
	return result
}

// MulScalar multiplies by a constant and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.tape.Record(ops.NewMulScalarOp(x, result, scalar))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(a, c)
	b.tape.Record(ops.NewMatMulOp(a, c, result))
	return result
}

// Transpose transposes a tensor and records the operation.
//
// The backend copies data, so the result is a new tensor; without the
// TransposeOp gradients would stop at the copy.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	result := b.inner.Transpose(t, axes...)
	b.tape.Record(ops.NewTransposeOp(t, result, axes))
	return result
}

// Sum reduces all elements to a scalar and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}

// Apply runs fn forward on the wrapped backend and records it on the tape.
// inputs are bound to fn.Inputs() in order.
func (b *AutodiffBackend[B]) Apply(fn graph.Function, inputs []*tensor.RawTensor) (*tensor.RawTensor, error) {
	out, state, err := fn.Forward(inputs, b.inner)
	if err != nil {
		return nil, err
	}
	b.tape.Record(ops.NewUserFunctionOp(fn, state, inputs, out))
	return out, nil
}
