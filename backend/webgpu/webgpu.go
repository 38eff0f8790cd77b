// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend. MatMul and Transpose of 2D
// float32 tensors run as WGSL compute kernels; everything else falls back to
// the CPU backend it embeds.
//
// The GPU path is built on windows only. Elsewhere New returns ErrUnavailable.
//
// Example:
//
//	var backend tensor.Backend = cpu.New()
//	if webgpu.IsAvailable() {
//	    gpu, err := webgpu.New()
//	    if err == nil {
//	        defer gpu.Release()
//	        backend = gpu
//	    }
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/born-ext/internal/backend/webgpu"
	"github.com/born-ml/born-ext/internal/parallel"
	"github.com/born-ml/born-ext/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// ErrUnavailable is returned by New when no WebGPU adapter can be used.
var ErrUnavailable = internalwebgpu.ErrUnavailable

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a WebGPU backend. Call Release when done.
func New() (*Backend, error) {
	return internalwebgpu.New(parallel.DefaultConfig())
}

// IsAvailable reports whether a WebGPU adapter can be initialized.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
