package autodiff

import (
	"errors"
	"fmt"

	"github.com/born-ml/born-ext/internal/tensor"
)

// ErrEmptyTape is returned by Backward when nothing was recorded.
var ErrEmptyTape = errors.New("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of output with respect to every tensor recorded
// on the backend's tape, seeding the output gradient with ones.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y, _ := backend.Apply(fn, []*tensor.RawTensor{w, x})
//	loss := backend.Sum(y)
//	grads, err := autodiff.Backward(loss, backend)
//	gw := grads[w]
func Backward(output *tensor.RawTensor, backend BackwardCapable) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		return nil, ErrEmptyTape
	}

	outputGrad, err := tensor.Ones(output.Shape(), output.DType(), backend.Device())
	if err != nil {
		return nil, fmt.Errorf("backward: failed to create output gradient: %w", err)
	}
	return tape.BackwardFrom(output, outputGrad, backend)
}
