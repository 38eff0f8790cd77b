// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the raw tensors user functions compute on.
//
// A RawTensor is a dense, row-major buffer of float32 or float64 values with a
// shape. Backends implement the small set of kernels user functions need.
//
// Example:
//
//	x, err := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.CPU)
//	y := cpu.New().MatMul(x, x)
package tensor

import (
	"math/rand"

	"github.com/born-ml/born-ext/internal/tensor"
)

// Type aliases for the internal tensor types.
type (
	// RawTensor is an untyped dense tensor.
	RawTensor = tensor.RawTensor

	// Shape lists the size of each dimension.
	Shape = tensor.Shape

	// DataType is the element type of a tensor.
	DataType = tensor.DataType

	// Device identifies where a tensor lives.
	Device = tensor.Device

	// Backend computes tensor operations.
	Backend = tensor.Backend
)

// Element types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype, device)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Ones(shape, dtype, device)
}

// Randn creates a tensor with values drawn from N(0, 1).
func Randn(shape Shape, dtype DataType, device Device, rng *rand.Rand) (*RawTensor, error) {
	return tensor.Randn(shape, dtype, device, rng)
}

// FromFloat32 copies values into a new float32 tensor.
func FromFloat32(values []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat32(values, shape, device)
}

// FromFloat64 copies values into a new float64 tensor.
func FromFloat64(values []float64, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat64(values, shape, device)
}
