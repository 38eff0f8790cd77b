package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation: a dense row-major buffer plus
// shape and type information. Backends allocate a new RawTensor for every result.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromFloat32 copies values into a new float32 tensor.
func FromFloat32(values []float32, shape Shape, device Device) (*RawTensor, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("from float32: %d values do not fill shape %s", len(values), shape)
	}
	r, err := NewRaw(shape, Float32, device)
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat32(), values)
	return r, nil
}

// FromFloat64 copies values into a new float64 tensor.
func FromFloat64(values []float64, shape Shape, device Device) (*RawTensor, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("from float64: %d values do not fill shape %s", len(values), shape)
	}
	r, err := NewRaw(shape, Float64, device)
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat64(), values)
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length fixed by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length fixed by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// Float64s returns a float64 copy of the values regardless of dtype.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	switch r.dtype {
	case Float32:
		for i, v := range r.AsFloat32() {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, r.AsFloat64())
	}
	return out
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// WithDevice returns a copy of the tensor tagged with another device.
// Used by backends that keep a host mirror of device memory.
func (r *RawTensor) WithDevice(device Device) *RawTensor {
	c := r.Clone()
	c.device = device
	return c
}
