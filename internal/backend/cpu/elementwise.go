package cpu

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/tensor"
)

type float interface {
	~float32 | ~float64
}

// Add performs element-wise addition. Shapes must match.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction. Shapes must match.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication. Shapes must match.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	result := cpu.newResult(op, a.Shape(), a.DType())
	switch a.DType() {
	case tensor.Float32:
		binaryLoop(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f)
	case tensor.Float64:
		binaryLoop(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}

func binaryLoop[T float](dst, a, b []T, f func(x, y float64) float64) {
	for i := range dst {
		dst[i] = T(f(float64(a[i]), float64(b[i])))
	}
}

// MulScalar multiplies each element by scalar. Accepts float32, float64 or int.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, err := toFloat64(scalar)
	if err != nil {
		panic(fmt.Sprintf("mulScalar: %v", err))
	}

	result := cpu.newResult("mulScalar", x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		scaleLoop(result.AsFloat32(), x.AsFloat32(), float32(s))
	case tensor.Float64:
		scaleLoop(result.AsFloat64(), x.AsFloat64(), s)
	default:
		panic(fmt.Sprintf("mulScalar: unsupported dtype %v", x.DType()))
	}
	return result
}

func scaleLoop[T float](dst, src []T, s T) {
	for i, v := range src {
		dst[i] = v * s
	}
}

// Sum reduces all elements to a scalar tensor (empty shape).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult("sum", tensor.Shape{}, x.DType())
	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumLoop(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumLoop(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}

func sumLoop[T float](src []T) T {
	var sum T
	for _, v := range src {
		sum += v
	}
	return sum
}

func toFloat64(scalar any) (float64, error) {
	switch v := scalar.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unsupported scalar type %T", scalar)
	}
}
