package autodiff_test

import (
	"errors"
	"testing"

	"github.com/born-ml/born-ext/internal/autodiff"
	"github.com/born-ml/born-ext/internal/backend/cpu"
	"github.com/born-ml/born-ext/internal/tensor"
)

func mustFloat32(t *testing.T, values []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat32(values, shape, tensor.CPU)
	if err != nil {
		t.Fatalf("FromFloat32: %v", err)
	}
	return r
}

func assertValues(t *testing.T, name string, got *tensor.RawTensor, want []float32) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: missing gradient", name)
	}
	actual := got.AsFloat32()
	if len(actual) != len(want) {
		t.Fatalf("%s: got %d values, want %d", name, len(actual), len(want))
	}
	for i, v := range want {
		if diff := actual[i] - v; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("%s[%d] = %f, want %f", name, i, actual[i], v)
		}
	}
}

// TestAutodiffBackend_Name tests the Name method.
func TestAutodiffBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	expected := "Autodiff(CPU)"
	if backend.Name() != expected {
		t.Errorf("Name() = %s, want %s", backend.Name(), expected)
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want %v", backend.Device(), tensor.CPU)
	}
}

// TestTape_Recording tests tape recording on/off.
func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("Tape should not be recording initially")
	}

	a := mustFloat32(t, []float32{1, 2}, tensor.Shape{2})
	backend.Add(a, a)
	if tape.NumOps() != 0 {
		t.Errorf("Expected 0 operations recorded (tape off), got %d", tape.NumOps())
	}

	tape.StartRecording()
	backend.Add(a, a)
	backend.Mul(a, a)
	if tape.NumOps() != 2 {
		t.Errorf("Expected 2 operations recorded, got %d", tape.NumOps())
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("Tape should be empty after Clear(), got %d ops", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Tape should still be recording after Clear()")
	}

	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("Tape should not be recording after StopRecording()")
	}
}

// TestBackward_EmptyTape tests that Backward reports an empty tape.
func TestBackward_EmptyTape(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := mustFloat32(t, []float32{1}, tensor.Shape{1})
	if _, err := autodiff.Backward(x, backend); !errors.Is(err, autodiff.ErrEmptyTape) {
		t.Errorf("Backward() error = %v, want ErrEmptyTape", err)
	}
}

// TestBackward_Elementwise tests y = sum((a + b) * a - 2b).
func TestBackward_Elementwise(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := mustFloat32(t, []float32{2, 3}, tensor.Shape{2})
	b := mustFloat32(t, []float32{4, 5}, tensor.Shape{2})

	sum := backend.Add(a, b)
	prod := backend.Mul(sum, a)
	y := backend.Sub(prod, backend.MulScalar(b, float32(2)))
	loss := backend.Sum(y)

	if got := loss.AsFloat32()[0]; got != 12+24-18 {
		t.Fatalf("loss = %f, want %d", got, 12+24-18)
	}

	grads, err := autodiff.Backward(loss, backend)
	if err != nil {
		t.Fatalf("Backward: %v", err)
	}

	// dy/da = 2a + b, dy/db = a - 2
	assertValues(t, "grad_a", grads[a], []float32{8, 11})
	assertValues(t, "grad_b", grads[b], []float32{0, 1})
}

// TestBackward_MatMulTranspose tests y = sum(A @ B^T).
func TestBackward_MatMulTranspose(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := mustFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := mustFloat32(t, []float32{5, 6, 7, 8, 9, 10}, tensor.Shape{3, 2})

	loss := backend.Sum(backend.MatMul(a, backend.Transpose(b)))

	grads, err := autodiff.Backward(loss, backend)
	if err != nil {
		t.Fatalf("Backward: %v", err)
	}

	// d/dA = ones[2,3] @ B = column sums of B in every row.
	assertValues(t, "grad_a", grads[a], []float32{21, 24, 21, 24})
	// d/dB = (A^T @ ones[2,3])^T = row sums of A^T in every row.
	assertValues(t, "grad_b", grads[b], []float32{4, 6, 4, 6, 4, 6})
}

// TestBackward_Accumulates tests that a tensor used twice gets both gradients.
func TestBackward_Accumulates(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := mustFloat32(t, []float32{3}, tensor.Shape{1})
	y := backend.Mul(x, x)

	grads, err := autodiff.Backward(y, backend)
	if err != nil {
		t.Fatalf("Backward: %v", err)
	}
	assertValues(t, "grad_x", grads[x], []float32{6})

	if !backend.Tape().IsRecording() {
		t.Error("Backward should restore the recording state")
	}
}

// TestBackwardFrom_ShapeMismatch tests output gradient validation.
func TestBackwardFrom_ShapeMismatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := mustFloat32(t, []float32{1, 2}, tensor.Shape{2})
	y := backend.Add(x, x)
	wrong := mustFloat32(t, []float32{1}, tensor.Shape{1})

	if _, err := backend.Tape().BackwardFrom(y, wrong, backend); err == nil {
		t.Error("BackwardFrom() with mismatched gradient should fail")
	}
}
