package userfunc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-ext/internal/backend/cpu"
	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

func TestUserTimesForward(t *testing.T) {
	backend := cpu.New()
	operands := operandPair(tensor.Float32, 2, 3, 2)
	fn, err := NewUserTimes(operands, nil, "times")
	require.NoError(t, err)

	left, err := tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.CPU)
	require.NoError(t, err)
	right, err := tensor.FromFloat32([]float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2}, tensor.CPU)
	require.NoError(t, err)

	out, _, err := graph.Evaluate(fn, graph.Bindings{operands[0]: left, operands[1]: right}, backend)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())
	assert.Equal(t, backend.MatMul(left, right).AsFloat32(), out.AsFloat32())
}

func TestUserTimesRejectsWrongValues(t *testing.T) {
	backend := cpu.New()
	fn, err := NewUserTimes(operandPair(tensor.Float32, 2, 3, 2), nil, "times")
	require.NoError(t, err)

	left, _ := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	wrong, _ := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)

	_, _, err = fn.Forward([]*tensor.RawTensor{left, wrong}, backend)
	assert.ErrorIs(t, err, graph.ErrShapeMismatch)

	_, _, err = fn.Forward([]*tensor.RawTensor{left}, backend)
	assert.ErrorIs(t, err, graph.ErrOperandCount)

	_, err = fn.Backward("not a state", left, backend)
	assert.Error(t, err)
}

// TestUserTimesGradients compares the analytical gradients with central
// differences of L = sum(out * G).
func TestUserTimesGradients(t *testing.T) {
	const (
		m, k, n = 3, 4, 2
		eps     = 1e-6
	)
	backend := cpu.New()
	rng := rand.New(rand.NewSource(7))

	operands := operandPair(tensor.Float64, m, k, n)
	fn, err := NewUserTimes(operands, nil, "times")
	require.NoError(t, err)

	left, err := tensor.Randn(tensor.Shape{m, k}, tensor.Float64, tensor.CPU, rng)
	require.NoError(t, err)
	right, err := tensor.Randn(tensor.Shape{k, n}, tensor.Float64, tensor.CPU, rng)
	require.NoError(t, err)
	g, err := tensor.Randn(tensor.Shape{m, n}, tensor.Float64, tensor.CPU, rng)
	require.NoError(t, err)

	_, grads, err := graph.Gradients(fn, graph.Bindings{operands[0]: left, operands[1]: right}, g, backend)
	require.NoError(t, err)
	require.Len(t, grads, 2)

	loss := func(l, r *tensor.RawTensor) float64 {
		out := backend.MatMul(l, r)
		var sum float64
		for i, v := range out.AsFloat64() {
			sum += v * g.AsFloat64()[i]
		}
		return sum
	}

	for idx, value := range []*tensor.RawTensor{left, right} {
		analytic := grads[operands[idx]].AsFloat64()
		data := value.AsFloat64()
		for i := range data {
			orig := data[i]
			data[i] = orig + eps
			plus := loss(left, right)
			data[i] = orig - eps
			minus := loss(left, right)
			data[i] = orig

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, analytic[i], 1e-5, "operand %d element %d", idx, i)
		}
	}
}

func TestUserTimesSkipsConstantGradients(t *testing.T) {
	backend := cpu.New()
	operands := []*graph.Variable{
		graph.NewConstant("W", tensor.Shape{2, 2}, tensor.Float32),
		graph.NewInput("x", tensor.Shape{2, 1}, tensor.Float32, true),
	}
	fn, err := NewUserTimes(operands, nil, "times")
	require.NoError(t, err)
	assert.True(t, fn.Output().NeedsGradient())

	w, _ := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.CPU)
	x, _ := tensor.FromFloat32([]float32{1, 1}, tensor.Shape{2, 1}, tensor.CPU)
	g, _ := tensor.Ones(tensor.Shape{2, 1}, tensor.Float32, tensor.CPU)

	_, grads, err := graph.Gradients(fn, graph.Bindings{operands[0]: w, operands[1]: x}, g, backend)
	require.NoError(t, err)
	assert.NotContains(t, grads, operands[0])
	require.Contains(t, grads, operands[1])
	assert.Equal(t, []float32{4, 6}, grads[operands[1]].AsFloat32())
}

func TestUserTimesClone(t *testing.T) {
	fn, err := NewUserTimes(operandPair(tensor.Float32, 2, 3, 4), graph.Dictionary{"k": "v"}, "times")
	require.NoError(t, err)

	other := operandPair(tensor.Float32, 5, 6, 7)
	clone, err := fn.Clone(other)
	require.NoError(t, err)
	assert.Equal(t, "times", clone.Name())
	assert.Equal(t, UserTimesOpName, clone.OpName())
	assert.Same(t, other[1], clone.Inputs()[1])
	assert.Equal(t, tensor.Shape{5, 7}, clone.Output().Shape())
	assert.True(t, fn.Attributes().Equal(clone.Attributes()))

	_, err = fn.Clone(other[:1])
	assert.ErrorIs(t, err, graph.ErrOperandCount)
}
