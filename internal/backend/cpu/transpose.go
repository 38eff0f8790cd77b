package cpu

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/tensor"
)

// Transpose permutes the axes of t. With no axes the dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := cpu.newResult("transpose", newShape, t.DType())
	permute(result, t, axes)
	return result
}

// permute copies src into dst so that dst[idx] = src[idx permuted by axes],
// element by element on the raw bytes.
func permute(dst, src *tensor.RawTensor, axes []int) {
	elem := src.DType().Size()
	srcStrides := src.Strides()
	dstShape := dst.Shape()
	ndim := len(dstShape)

	// Stride in src for each dst axis.
	strides := make([]int, ndim)
	for i, ax := range axes {
		strides[i] = srcStrides[ax]
	}

	in := src.Data()
	out := dst.Data()
	idx := make([]int, ndim)
	srcOff := 0
	for d := 0; d < dst.NumElements(); d++ {
		copy(out[d*elem:(d+1)*elem], in[srcOff*elem:(srcOff+1)*elem])

		// Increment the multi-index, updating the source offset incrementally.
		for ax := ndim - 1; ax >= 0; ax-- {
			idx[ax]++
			srcOff += strides[ax]
			if idx[ax] < dstShape[ax] {
				break
			}
			srcOff -= strides[ax] * idx[ax]
			idx[ax] = 0
		}
	}
}
