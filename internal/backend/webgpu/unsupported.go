//go:build !windows

package webgpu

import (
	"github.com/born-ml/born-ext/internal/backend/cpu"
	"github.com/born-ml/born-ext/internal/parallel"
)

// Backend is unavailable on this platform.
type Backend struct {
	*cpu.CPUBackend
}

// New always fails on this platform.
func New(parallel.Config) (*Backend, error) {
	return nil, ErrUnavailable
}

// Release is a no-op.
func (b *Backend) Release() {}
