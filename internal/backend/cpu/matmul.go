package cpu

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/parallel"
	"github.com/born-ml/born-ext/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Output rows are split across goroutines; the inner loop runs in i-k-j order so
// both B and C are walked sequentially.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	result := cpu.newResult("matmul", tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float32:
		matmul(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n, cpu.parallel)
	case tensor.Float64:
		matmul(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n, cpu.parallel)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmul computes C[i,j] = sum_k A[i,k] * B[k,j]. C must be zeroed.
func matmul[T float](c, a, b []T, m, k, n int, cfg parallel.Config) {
	parallel.ForRows(m, k*n, func(start, end int) {
		for i := start; i < end; i++ {
			row := c[i*n : (i+1)*n]
			for kIdx := 0; kIdx < k; kIdx++ {
				aik := a[i*k+kIdx]
				if aik == 0 {
					continue
				}
				bRow := b[kIdx*n : (kIdx+1)*n]
				for j, bkj := range bRow {
					row[j] += aik * bkj
				}
			}
		}
	}, cfg)
}
