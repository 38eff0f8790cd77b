//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/born-ext/internal/tensor"
)

const workgroupSize = 16

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()
	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	// Auto layout (nil layout)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()
	return pipeline
}

// createBuffer creates a GPU buffer holding data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), size), data)
	buffer.Unmap()
	return buffer
}

// createUniformBuffer creates a uniform buffer of 16-byte aligned size.
func (b *Backend) createUniformBuffer(values ...uint32) (*wgpu.Buffer, uint64) {
	data := make([]byte, (len(values)*4+15)&^15)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	return b.createBuffer(data, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst), uint64(len(data))
}

// createOutputBuffer creates a storage buffer the shader writes to.
func (b *Backend) createOutputBuffer(size uint64) *wgpu.Buffer {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, dst []byte) error {
	size := uint64(len(dst))
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	b.queue.Submit(encoder.Finish(nil))

	if err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("failed to map staging buffer: %w", err)
	}
	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(dst, unsafe.Slice((*byte)(mappedPtr), size))
	stagingBuffer.Unmap()
	return nil
}

// dispatch runs a 2D compute pass over a width x height grid.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, entries []wgpu.BindGroupEntry, width, height uint32) {
	bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(
		(width+workgroupSize-1)/workgroupSize,
		(height+workgroupSize-1)/workgroupSize,
		1,
	)
	pass.End()
	b.queue.Submit(encoder.Finish(nil))
}

// runMatMul executes C = A @ B on GPU. A is [M, K], B is [K, N], C is [M, N].
func (b *Backend) runMatMul(a, other *tensor.RawTensor) (*tensor.RawTensor, error) {
	if a.Shape()[1] != other.Shape()[0] {
		return nil, fmt.Errorf("shape mismatch: %s @ %s", a.Shape(), other.Shape())
	}
	//nolint:gosec // G115: shape dimensions are non-negative
	m, k, n := uint32(a.Shape()[0]), uint32(a.Shape()[1]), uint32(other.Shape()[1])

	pipeline := b.getOrCreatePipeline("matmul", b.compileShader("matmul", matmulShader))

	bufferA := b.createBuffer(a.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferA.Release()
	bufferOther := b.createBuffer(other.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferOther.Release()

	result, err := tensor.NewRaw(tensor.Shape{int(m), int(n)}, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // G115: ByteSize() is non-negative
	resultSize := uint64(result.ByteSize())
	bufferResult := b.createOutputBuffer(resultSize)
	defer bufferResult.Release()

	bufferParams, paramsSize := b.createUniformBuffer(m, k, n)
	defer bufferParams.Release()

	//nolint:gosec // G115: ByteSize() is non-negative
	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, uint64(a.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferOther, 0, uint64(other.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, paramsSize),
	}, n, m)

	if err := b.readBuffer(bufferResult, result.Data()); err != nil {
		return nil, err
	}
	return result, nil
}

// runTranspose executes 2D matrix transpose on GPU.
func (b *Backend) runTranspose(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	//nolint:gosec // G115: shape dimensions are non-negative
	rows, cols := uint32(input.Shape()[0]), uint32(input.Shape()[1])

	pipeline := b.getOrCreatePipeline("transpose", b.compileShader("transpose", transposeShader))

	bufferInput := b.createBuffer(input.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferInput.Release()

	result, err := tensor.NewRaw(tensor.Shape{int(cols), int(rows)}, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // G115: ByteSize() is non-negative
	resultSize := uint64(result.ByteSize())
	bufferResult := b.createOutputBuffer(resultSize)
	defer bufferResult.Release()

	bufferParams, paramsSize := b.createUniformBuffer(rows, cols)
	defer bufferParams.Release()

	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferInput, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, paramsSize),
	}, cols, rows)

	if err := b.readBuffer(bufferResult, result.Data()); err != nil {
		return nil, err
	}
	return result, nil
}
