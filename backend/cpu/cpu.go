// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// Row loops of MatMul and the BinMul2A1B kernels run on several goroutines
// unless the backend is built with parallel execution disabled.
package cpu

import (
	internalcpu "github.com/born-ml/born-ext/internal/backend/cpu"
	"github.com/born-ml/born-ext/internal/parallel"
	"github.com/born-ml/born-ext/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend using one worker per CPU.
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that never spawns goroutines.
func NewSequential() *Backend {
	return internalcpu.NewWithConfig(parallel.Sequential())
}
