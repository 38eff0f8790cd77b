package graph

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/tensor"
)

// BackPropState is whatever a Function's Forward needs to hand to its Backward.
// It is opaque to the host.
type BackPropState any

// Function is a node of the computation graph implemented outside the core
// operator set. Implementations are immutable after construction.
type Function interface {
	// Name returns the instance name given at construction.
	Name() string

	// OpName returns the operator type, e.g. "UserTimesFunction".
	OpName() string

	// Inputs returns the operands in construction order.
	Inputs() []*Variable

	// Output returns the single output variable.
	Output() *Variable

	// Attributes returns the attribute dictionary the function was built with.
	Attributes() Dictionary

	// Forward computes the output for values bound to Inputs(), in the same order.
	Forward(inputs []*tensor.RawTensor, backend tensor.Backend) (*tensor.RawTensor, BackPropState, error)

	// Backward returns one gradient per input given the gradient of the output.
	// Entries are nil for inputs that do not need a gradient.
	Backward(state BackPropState, outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error)

	// Clone builds the same function over new operands.
	Clone(inputs []*Variable) (Function, error)
}

// Base carries the bookkeeping shared by Function implementations. Embed it and
// implement Forward, Backward and Clone.
type Base struct {
	name       string
	opName     string
	inputs     []*Variable
	output     *Variable
	attributes Dictionary
}

// NewBase copies operands and clones attributes so the caller keeps ownership of
// both, then creates the output variable.
func NewBase(opName string, operands []*Variable, attributes Dictionary, name string, outShape tensor.Shape, dtype tensor.DataType) Base {
	inputs := make([]*Variable, len(operands))
	copy(inputs, operands)

	needsGrad := false
	for _, in := range inputs {
		needsGrad = needsGrad || in.NeedsGradient()
	}

	return Base{
		name:       name,
		opName:     opName,
		inputs:     inputs,
		output:     NewOutput(name, outShape, dtype, needsGrad),
		attributes: attributes.Clone(),
	}
}

// Name returns the instance name.
func (b *Base) Name() string { return b.name }

// OpName returns the operator type.
func (b *Base) OpName() string { return b.opName }

// Inputs returns a copy of the operand list.
func (b *Base) Inputs() []*Variable {
	out := make([]*Variable, len(b.inputs))
	copy(out, b.inputs)
	return out
}

// Output returns the output variable.
func (b *Base) Output() *Variable { return b.output }

// Attributes returns a copy of the attribute dictionary.
func (b *Base) Attributes() Dictionary { return b.attributes.Clone() }

// CheckOperands validates the operand list given to a constructor.
func CheckOperands(opName string, operands []*Variable, want int) error {
	if len(operands) != want {
		return fmt.Errorf("%s: want %d operands, got %d: %w", opName, want, len(operands), ErrOperandCount)
	}
	for i, op := range operands {
		if op == nil {
			return fmt.Errorf("%s: operand %d: %w", opName, i, ErrNilOperand)
		}
	}
	return nil
}

// CheckValues validates values bound to a function's inputs against their
// declared shapes and dtypes.
func CheckValues(fn Function, values []*tensor.RawTensor) error {
	inputs := fn.Inputs()
	if len(values) != len(inputs) {
		return fmt.Errorf("%s: want %d input values, got %d: %w", fn.OpName(), len(inputs), len(values), ErrOperandCount)
	}
	for i, in := range inputs {
		v := values[i]
		if v == nil {
			return fmt.Errorf("%s: input %s: %w", fn.OpName(), in, ErrUnboundInput)
		}
		if !v.Shape().Equal(in.Shape()) {
			return fmt.Errorf("%s: input %s bound to shape %s: %w", fn.OpName(), in, v.Shape(), ErrShapeMismatch)
		}
		if v.DType() != in.DType() {
			return fmt.Errorf("%s: input %s bound to dtype %s: %w", fn.OpName(), in, v.DType(), ErrDTypeMismatch)
		}
	}
	return nil
}

// Bindings maps variables to their values for one evaluation.
type Bindings map[*Variable]*tensor.RawTensor

// Evaluate runs fn forward over the bound inputs.
func Evaluate(fn Function, bindings Bindings, backend tensor.Backend) (*tensor.RawTensor, BackPropState, error) {
	values := make([]*tensor.RawTensor, 0, len(fn.Inputs()))
	for _, in := range fn.Inputs() {
		values = append(values, bindings[in])
	}
	if err := CheckValues(fn, values); err != nil {
		return nil, nil, err
	}
	return fn.Forward(values, backend)
}

// Gradients evaluates fn forward and backward and returns the gradient of every
// input that needs one, keyed by variable.
func Gradients(fn Function, bindings Bindings, outputGrad *tensor.RawTensor, backend tensor.Backend) (*tensor.RawTensor, map[*Variable]*tensor.RawTensor, error) {
	out, state, err := Evaluate(fn, bindings, backend)
	if err != nil {
		return nil, nil, err
	}
	if !outputGrad.Shape().Equal(out.Shape()) {
		return nil, nil, fmt.Errorf("%s: output gradient shape %s, output shape %s: %w",
			fn.OpName(), outputGrad.Shape(), out.Shape(), ErrShapeMismatch)
	}

	grads, err := fn.Backward(state, outputGrad, backend)
	if err != nil {
		return nil, nil, err
	}

	result := make(map[*Variable]*tensor.RawTensor)
	for i, in := range fn.Inputs() {
		if i < len(grads) && grads[i] != nil {
			result[in] = grads[i]
		}
	}
	return out, result, nil
}

// Factory constructs a Function from operands, attributes and a name. It is the
// signature of every exported native user function entry point. Factories never
// retain the operand slice or the dictionary passed in.
type Factory func(operands []*Variable, attributes Dictionary, name string) (Function, error)
