package webgpu

import "github.com/born-ml/born-ext/internal/parallel"

// IsAvailable reports whether a WebGPU device can be opened.
func IsAvailable() bool {
	b, err := New(parallel.Sequential())
	if err != nil {
		return false
	}
	b.Release()
	return true
}
