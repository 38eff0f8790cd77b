// Package cpu implements the pure Go CPU backend used to run native user functions.
package cpu

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/parallel"
	"github.com/born-ml/born-ext/internal/tensor"
)

// CPUBackend implements tensor operations on CPU. Row loops of the heavier kernels
// are split across goroutines according to its parallel.Config.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the parallel configuration used by row-split kernels.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}

// newResult allocates a result tensor or panics with the op name.
func (cpu *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)
