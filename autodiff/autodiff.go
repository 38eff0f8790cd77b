// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over
// native user functions.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	y, err := backend.Apply(fn, []*tensor.RawTensor{w, x})
//	if err != nil {
//	    return err
//	}
//	grads, err := autodiff.Backward(backend.Sum(y), backend)
//	gw := grads[w]
package autodiff

import (
	"github.com/born-ml/born-ext/internal/autodiff"
	"github.com/born-ml/born-ext/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// ErrEmptyTape is returned by Backward when nothing was recorded.
var ErrEmptyTape = autodiff.ErrEmptyTape

// Backward computes the gradient of output with respect to every tensor
// recorded on the backend's tape.
func Backward(output *tensor.RawTensor, backend BackwardCapable) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	return autodiff.Backward(output, backend)
}
