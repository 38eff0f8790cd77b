package tensor

// Backend defines the interface that compute backends implement for native user
// functions. Kernels panic on programmer errors (mismatched shapes, unsupported
// dtypes) with an "op: message" string; callers validate shapes beforehand.
//
// Implementations:
//   - CPU: pure Go, rows parallelised via internal/parallel
//   - WebGPU: WGSL compute kernels for MatMul/Transpose (windows)
type Backend interface {
	// Element-wise binary operations (shapes must match)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Matrix operations: (M, K) @ (K, N) -> (M, N)
	MatMul(a, b *RawTensor) *RawTensor

	// Transpose permutes axes; no axes reverses them.
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// MulScalar multiplies every element by scalar (float32 or float64).
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// Sum reduces all elements to a scalar tensor.
	Sum(x *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
