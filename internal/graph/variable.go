// Package graph holds the host-side view of the computation graph that native user
// functions plug into: operand variables, attribute dictionaries and the Function
// contract every custom operator implements.
package graph

import (
	"fmt"
	"sync/atomic"

	"github.com/born-ml/born-ext/internal/tensor"
)

// VariableKind tells where a variable's value comes from.
type VariableKind int

// Variable kinds.
const (
	Input VariableKind = iota
	Parameter
	Constant
	Output
)

// String returns the kind name, also used as the uid prefix.
func (k VariableKind) String() string {
	switch k {
	case Input:
		return "Input"
	case Parameter:
		return "Parameter"
	case Constant:
		return "Constant"
	case Output:
		return "Output"
	default:
		return "Unknown"
	}
}

var uidCounter atomic.Uint64

// Variable is a symbolic operand of the graph. Values are bound at evaluation time.
// Variables are immutable after creation and compared by pointer.
type Variable struct {
	uid           string
	name          string
	kind          VariableKind
	shape         tensor.Shape
	dtype         tensor.DataType
	needsGradient bool
}

func newVariable(kind VariableKind, name string, shape tensor.Shape, dtype tensor.DataType, needsGradient bool) *Variable {
	return &Variable{
		uid:           fmt.Sprintf("%s%d", kind, uidCounter.Add(1)),
		name:          name,
		kind:          kind,
		shape:         shape.Clone(),
		dtype:         dtype,
		needsGradient: needsGradient,
	}
}

// NewInput creates an input variable.
func NewInput(name string, shape tensor.Shape, dtype tensor.DataType, needsGradient bool) *Variable {
	return newVariable(Input, name, shape, dtype, needsGradient)
}

// NewParameter creates a learnable parameter; parameters always need gradients.
func NewParameter(name string, shape tensor.Shape, dtype tensor.DataType) *Variable {
	return newVariable(Parameter, name, shape, dtype, true)
}

// NewConstant creates a constant variable without gradient.
func NewConstant(name string, shape tensor.Shape, dtype tensor.DataType) *Variable {
	return newVariable(Constant, name, shape, dtype, false)
}

// NewOutput creates the output variable of a function.
func NewOutput(name string, shape tensor.Shape, dtype tensor.DataType, needsGradient bool) *Variable {
	return newVariable(Output, name, shape, dtype, needsGradient)
}

// UID returns the unique identifier of the variable.
func (v *Variable) UID() string { return v.uid }

// Name returns the user-provided name (may be empty).
func (v *Variable) Name() string { return v.name }

// Kind returns the variable kind.
func (v *Variable) Kind() VariableKind { return v.kind }

// Shape returns a copy of the static shape.
func (v *Variable) Shape() tensor.Shape { return v.shape.Clone() }

// DType returns the element type.
func (v *Variable) DType() tensor.DataType { return v.dtype }

// NeedsGradient reports whether backward should produce a gradient for v.
func (v *Variable) NeedsGradient() bool { return v.needsGradient }

// String implements fmt.Stringer.
func (v *Variable) String() string {
	if v.name != "" {
		return fmt.Sprintf("%s(%s %s %s)", v.kind, v.name, v.shape, v.dtype)
	}
	return fmt.Sprintf("%s(%s %s %s)", v.kind, v.uid, v.shape, v.dtype)
}
