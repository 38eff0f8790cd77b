package autodiff

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/autodiff/ops"
	"github.com/born-ml/born-ext/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations ...
//	gradients, err := tape.Backward(outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool            // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward computes gradients starting from the output of the last recorded
// operation.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if len(t.operations) == 0 {
		return make(map[*tensor.RawTensor]*tensor.RawTensor), nil
	}
	return t.BackwardFrom(t.operations[len(t.operations)-1].Output(), outputGrad, backend)
}

// BackwardFrom computes gradients for all inputs by walking the tape in reverse,
// seeding output with outputGrad.
//
// Algorithm:
//  1. Start with the output gradient (typically ones for scalar loss)
//  2. Walk operations in reverse order
//  3. For each operation, compute input gradients using chain rule
//  4. Accumulate gradients when the same tensor is used multiple times
//
// Returns a map from RawTensor to its accumulated gradient. The first error
// returned by an operation aborts the walk.
func (t *GradientTape) BackwardFrom(output, outputGrad *tensor.RawTensor, backend tensor.Backend) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if !outputGrad.Shape().Equal(output.Shape()) {
		return nil, fmt.Errorf("backward: output gradient shape %s, output shape %s", outputGrad.Shape(), output.Shape())
	}

	// Stop recording during backward pass to prevent recording gradient operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	grads := map[*tensor.RawTensor]*tensor.RawTensor{output: outputGrad}

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		opGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		inputGrads, err := op.Backward(opGrad, backend)
		if err != nil {
			return nil, err
		}
		t.accumulateGrads(op, inputGrads, grads, backend)
	}

	return grads, nil
}

// accumulateGrads accumulates gradients for each input tensor.
func (t *GradientTape) accumulateGrads(
	op ops.Operation,
	inputGrads []*tensor.RawTensor,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
) {
	for j, input := range op.Inputs() {
		if j >= len(inputGrads) {
			break
		}
		inputGrad := inputGrads[j]
		if inputGrad == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrad)
		} else {
			grads[input] = inputGrad
		}
	}
}
