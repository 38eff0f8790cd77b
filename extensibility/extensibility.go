// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package extensibility exposes the native user-defined operators of born-ext.
//
// The same factories are exported from the Go plugin built out of cmd/extlib.
// Programs that cannot load plugins link them in statically:
//
//	reg := extensibility.NewRegistry()
//	if err := extensibility.Register(reg); err != nil {
//	    return err
//	}
//	fn, err := reg.Create("BinMul2A1B", []*extensibility.Variable{w, x}, nil, "bin")
package extensibility

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/native"
	"github.com/born-ml/born-ext/internal/tensor"
	"github.com/born-ml/born-ext/internal/userfunc"
)

// Type aliases for the host graph.
type (
	// Variable is an operand of a Function.
	Variable = graph.Variable

	// Dictionary holds operator attributes.
	Dictionary = graph.Dictionary

	// Function is a node of the computation graph.
	Function = graph.Function

	// Factory constructs a Function from operands, attributes and a name.
	Factory = graph.Factory

	// Registry maps operator names to factories.
	Registry = native.Registry
)

// Operator names.
const (
	BinMul2A1BOpName = userfunc.BinMul2A1BOpName
	UserTimesOpName  = userfunc.UserTimesOpName
)

// NewInput creates an input variable.
func NewInput(name string, shape tensor.Shape, dtype tensor.DataType, needsGradient bool) *Variable {
	return graph.NewInput(name, shape, dtype, needsGradient)
}

// NewParameter creates a trainable parameter.
func NewParameter(name string, shape tensor.Shape, dtype tensor.DataType) *Variable {
	return graph.NewParameter(name, shape, dtype)
}

// NewConstant creates a constant.
func NewConstant(name string, shape tensor.Shape, dtype tensor.DataType) *Variable {
	return graph.NewConstant(name, shape, dtype)
}

// CreateBinGemm2A1B constructs a BinMul2A1B operator.
func CreateBinGemm2A1B(operands []*Variable, attributes Dictionary, name string) (Function, error) {
	return userfunc.CreateBinGemm2A1B(operands, attributes, name)
}

// CreateUserTimesFunction constructs a UserTimes operator.
func CreateUserTimesFunction(operands []*Variable, attributes Dictionary, name string) (Function, error) {
	return userfunc.CreateUserTimesFunction(operands, attributes, name)
}

// NewRegistry returns a registry with the operators of this package registered.
func NewRegistry() *Registry {
	r := native.NewRegistry()
	if err := Register(r); err != nil {
		// An empty registry cannot hold duplicates.
		panic(err)
	}
	return r
}

// Register adds the statically linked operators to r. The module path of
// each registration is empty, so serialized functions resolve them by name.
func Register(r *Registry) error {
	for _, e := range userfunc.Entries() {
		if err := r.RegisterFactory(e.OpName, "", e.Symbol, e.Factory); err != nil {
			return fmt.Errorf("register %s: %w", e.OpName, err)
		}
	}
	return nil
}
