//go:build windows

// Package webgpu implements the WebGPU backend for GPU-accelerated matrix kernels.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// MatMul and 2D Transpose of float32 tensors run on the GPU; every other
// operation falls through to the embedded CPU backend.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/born-ext/internal/backend/cpu"
	"github.com/born-ml/born-ext/internal/parallel"
	"github.com/born-ml/born-ext/internal/tensor"
)

// Backend implements tensor operations on GPU using WebGPU.
type Backend struct {
	*cpu.CPUBackend

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex
}

// New creates a new WebGPU backend. cfg configures the CPU fallback.
// Returns an error if WebGPU is not available or initialization fails.
func New(cfg parallel.Config) (backend *Backend, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("%w: native library not available: %v", ErrUnavailable, r)
		}
	}()

	if err := wgpu.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create instance: %w", ErrUnavailable, err)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request adapter: %w", ErrUnavailable, err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request device: %w", ErrUnavailable, err)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to get queue", ErrUnavailable)
	}

	return &Backend{
		CPUBackend: cpu.NewWithConfig(cfg),
		instance:   instance,
		adapter:    adapter,
		device:     device,
		queue:      queue,
		shaders:    make(map[string]*wgpu.ShaderModule),
		pipelines:  make(map[string]*wgpu.ComputePipeline),
	}, nil
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// MatMul multiplies 2D float32 matrices on the GPU.
func (b *Backend) MatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(a) || !gpuEligible(other) {
		return b.CPUBackend.MatMul(a, other)
	}
	result, err := b.runMatMul(a, other)
	if err != nil {
		panic("webgpu: matmul: " + err.Error())
	}
	return result
}

// Transpose swaps the axes of a 2D float32 matrix on the GPU.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	swap := len(axes) == 0 || (len(axes) == 2 && axes[0] == 1 && axes[1] == 0)
	if !swap || !gpuEligible(t) {
		return b.CPUBackend.Transpose(t, axes...)
	}
	result, err := b.runTranspose(t)
	if err != nil {
		panic("webgpu: transpose: " + err.Error())
	}
	return result
}

func gpuEligible(t *tensor.RawTensor) bool {
	return t.DType() == tensor.Float32 && len(t.Shape()) == 2 && t.NumElements() > 0
}

// Release releases all WebGPU resources.
// Must be called when the backend is no longer needed.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, name)
	}
	for name, s := range b.shaders {
		s.Release()
		delete(b.shaders, name)
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)
