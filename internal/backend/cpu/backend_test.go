package cpu

import (
	"math/rand"
	"testing"

	"github.com/born-ml/born-ext/internal/parallel"
	"github.com/born-ml/born-ext/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New()
}

// Helper to check float32 slices are equal within epsilon.
func float32SliceEqual(a, b []float32) bool {
	const epsilon = 1e-5
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > epsilon {
			return false
		}
	}
	return true
}

func mustFloat32(t *testing.T, values []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat32(values, shape, tensor.CPU)
	if err != nil {
		t.Fatalf("FromFloat32: %v", err)
	}
	return r
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
}

func TestCPUBackend_Elementwise(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := mustFloat32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	if got := backend.Add(a, b).AsFloat32(); !float32SliceEqual(got, []float32{6, 8, 10, 12}) {
		t.Errorf("Add = %v", got)
	}
	if got := backend.Sub(a, b).AsFloat32(); !float32SliceEqual(got, []float32{-4, -4, -4, -4}) {
		t.Errorf("Sub = %v", got)
	}
	if got := backend.Mul(a, b).AsFloat32(); !float32SliceEqual(got, []float32{5, 12, 21, 32}) {
		t.Errorf("Mul = %v", got)
	}
	if got := backend.MulScalar(a, float32(0.5)).AsFloat32(); !float32SliceEqual(got, []float32{0.5, 1, 1.5, 2}) {
		t.Errorf("MulScalar = %v", got)
	}
	if got := backend.Sum(a).AsFloat32(); got[0] != 10 {
		t.Errorf("Sum = %v", got)
	}

	// Inputs are never modified.
	if !float32SliceEqual(a.AsFloat32(), []float32{1, 2, 3, 4}) {
		t.Errorf("input modified: %v", a.AsFloat32())
	}
}

func TestCPUBackend_AddShapeMismatchPanics(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat32(t, []float32{1, 2}, tensor.Shape{2})
	b := mustFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on shape mismatch")
		}
	}()
	backend.Add(a, b)
}

// TestCPUBackend_MatMul tests 2D matrix multiplication.
func TestCPUBackend_MatMul(t *testing.T) {
	backend := newTestBackend()

	// [2,3] @ [3,2]
	a := mustFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := mustFloat32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("MatMul shape = %v, want [2, 2]", result.Shape())
	}
	expected := []float32{58, 64, 139, 154}
	if !float32SliceEqual(result.AsFloat32(), expected) {
		t.Errorf("MatMul = %v, want %v", result.AsFloat32(), expected)
	}
}

func TestCPUBackend_MatMulParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // G404: deterministic test data
	a, _ := tensor.Randn(tensor.Shape{67, 33}, tensor.Float64, tensor.CPU, rng)
	b, _ := tensor.Randn(tensor.Shape{33, 19}, tensor.Float64, tensor.CPU, rng)

	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinWork: 16})
	seq := NewWithConfig(parallel.Sequential())

	got := par.MatMul(a, b).AsFloat64()
	want := seq.MatMul(a, b).AsFloat64()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("element %d: parallel %v, sequential %v", i, got[i], want[i])
		}
	}
}

func TestCPUBackend_MatMulShapeMismatchPanics(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := mustFloat32(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on inner dimension mismatch")
		}
	}()
	backend.MatMul(a, b)
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.Transpose(a)
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape = %v", result.Shape())
	}
	if !float32SliceEqual(result.AsFloat32(), []float32{1, 4, 2, 5, 3, 6}) {
		t.Errorf("Transpose = %v", result.AsFloat32())
	}
}

func TestCPUBackend_Transpose3D(t *testing.T) {
	backend := newTestBackend()
	values := make([]float32, 24)
	for i := range values {
		values[i] = float32(i)
	}
	a := mustFloat32(t, values, tensor.Shape{2, 3, 4})

	result := backend.Transpose(a, 1, 0, 2)
	if !result.Shape().Equal(tensor.Shape{3, 2, 4}) {
		t.Fatalf("Transpose shape = %v", result.Shape())
	}
	// result[i,j,k] = a[j,i,k]
	got := result.AsFloat32()
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 4; k++ {
				want := values[j*12+i*4+k]
				if got[i*8+j*4+k] != want {
					t.Fatalf("result[%d,%d,%d] = %v, want %v", i, j, k, got[i*8+j*4+k], want)
				}
			}
		}
	}
}

func BenchmarkMatMul(b *testing.B) {
	rng := rand.New(rand.NewSource(1)) //nolint:gosec // G404: deterministic benchmark data
	x, _ := tensor.Randn(tensor.Shape{256, 256}, tensor.Float32, tensor.CPU, rng)
	y, _ := tensor.Randn(tensor.Shape{256, 256}, tensor.Float32, tensor.CPU, rng)
	backend := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.MatMul(x, y)
	}
}
