package userfunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

func operandPair(dtype tensor.DataType, m, k, n int) []*graph.Variable {
	return []*graph.Variable{
		graph.NewParameter("W", tensor.Shape{m, k}, dtype),
		graph.NewInput("x", tensor.Shape{k, n}, dtype, true),
	}
}

func TestFactoriesPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		factory graph.Factory
		opName  string
		attrs   graph.Dictionary
		check   func(t *testing.T, fn graph.Function)
	}{
		{
			name:    "BinGemm2A1B",
			factory: CreateBinGemm2A1B,
			opName:  BinMul2A1BOpName,
			attrs:   graph.Dictionary{AttrActivationMax: 2.0, "custom": "kept"},
			check: func(t *testing.T, fn graph.Function) {
				_, ok := fn.(*BinMul2A1B)
				assert.True(t, ok, "got %T", fn)
			},
		},
		{
			name:    "UserTimesFunction",
			factory: CreateUserTimesFunction,
			opName:  UserTimesOpName,
			attrs:   graph.Dictionary{"note": "anything", "n": 3},
			check: func(t *testing.T, fn graph.Function) {
				_, ok := fn.(*UserTimes)
				assert.True(t, ok, "got %T", fn)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			operands := operandPair(tensor.Float32, 4, 5, 3)
			attrs := tt.attrs.Clone()

			fn, err := tt.factory(operands, attrs, "myOp")
			require.NoError(t, err)
			require.NotNil(t, fn)
			tt.check(t, fn)

			assert.Equal(t, tt.opName, fn.OpName())
			assert.Equal(t, "myOp", fn.Name())

			inputs := fn.Inputs()
			require.Len(t, inputs, 2)
			assert.Same(t, operands[0], inputs[0])
			assert.Same(t, operands[1], inputs[1])

			assert.True(t, tt.attrs.Equal(fn.Attributes()))
			assert.Equal(t, tensor.Shape{4, 3}, fn.Output().Shape())

			// Caller-owned inputs are unchanged by the call.
			assert.True(t, tt.attrs.Equal(attrs))
			assert.Len(t, operands, 2)

			// And later changes by the caller do not reach the function.
			attrs["late"] = true
			operands[0] = nil
			assert.False(t, fn.Attributes().Has("late"))
			assert.NotNil(t, fn.Inputs()[0])
		})
	}
}

func TestFactoriesPropagateConstructorErrors(t *testing.T) {
	pair := operandPair(tensor.Float32, 2, 3, 4)
	three := append(operandPair(tensor.Float32, 2, 3, 4), graph.NewInput("extra", tensor.Shape{1}, tensor.Float32, false))
	mismatch := []*graph.Variable{
		graph.NewParameter("W", tensor.Shape{2, 3}, tensor.Float32),
		graph.NewInput("x", tensor.Shape{4, 4}, tensor.Float32, false),
	}
	mixed := []*graph.Variable{
		graph.NewParameter("W", tensor.Shape{2, 3}, tensor.Float32),
		graph.NewInput("x", tensor.Shape{3, 4}, tensor.Float64, false),
	}
	rank3 := []*graph.Variable{
		graph.NewParameter("W", tensor.Shape{2, 3, 1}, tensor.Float32),
		graph.NewInput("x", tensor.Shape{3, 4}, tensor.Float32, false),
	}

	for _, entry := range Entries() {
		t.Run(entry.OpName, func(t *testing.T) {
			cases := []struct {
				name     string
				operands []*graph.Variable
				want     error
			}{
				{"none", nil, graph.ErrOperandCount},
				{"one", pair[:1], graph.ErrOperandCount},
				{"three", three, graph.ErrOperandCount},
				{"nil operand", []*graph.Variable{pair[0], nil}, graph.ErrNilOperand},
				{"inner mismatch", mismatch, graph.ErrShapeMismatch},
				{"rank 3", rank3, graph.ErrShapeMismatch},
				{"mixed dtypes", mixed, graph.ErrDTypeMismatch},
			}
			for _, tc := range cases {
				fn, err := entry.Factory(tc.operands, nil, "bad")
				assert.ErrorIs(t, err, tc.want, tc.name)
				assert.Nil(t, fn, tc.name)
			}
		})
	}
}

func TestBinGemmRejectsBadAttributes(t *testing.T) {
	operands := operandPair(tensor.Float32, 2, 3, 4)

	cases := []struct {
		name  string
		attrs graph.Dictionary
		want  error
	}{
		{"negative activationMax", graph.Dictionary{AttrActivationMax: -1.0}, graph.ErrInvalidAttribute},
		{"zero activationMax", graph.Dictionary{AttrActivationMax: 0}, graph.ErrInvalidAttribute},
		{"string activationMax", graph.Dictionary{AttrActivationMax: "one"}, graph.ErrAttributeType},
		{"string packed", graph.Dictionary{AttrPacked: "yes"}, graph.ErrAttributeType},
		{"int scaleWeights", graph.Dictionary{AttrScaleWeights: 1}, graph.ErrAttributeType},
		{"float clipWeightGrad", graph.Dictionary{AttrClipWeightGrad: 0.5}, graph.ErrAttributeType},
	}
	for _, tc := range cases {
		fn, err := CreateBinGemm2A1B(operands, tc.attrs, "bad")
		assert.ErrorIs(t, err, tc.want, tc.name)
		assert.Nil(t, fn, tc.name)
	}
}

func TestFactoriesRejectEmptyDimensions(t *testing.T) {
	for _, e := range Entries() {
		for _, dims := range [][3]int{{0, 3, 4}, {2, 0, 4}, {2, 3, 0}} {
			fn, err := e.Factory(operandPair(tensor.Float32, dims[0], dims[1], dims[2]), nil, "empty")
			assert.ErrorIs(t, err, graph.ErrShapeMismatch, "%s %v", e.OpName, dims)
			assert.Nil(t, fn)
		}
		neg := []*graph.Variable{
			graph.NewParameter("W", tensor.Shape{-2, 3}, tensor.Float32),
			graph.NewInput("x", tensor.Shape{3, 4}, tensor.Float32, true),
		}
		_, err := e.Factory(neg, nil, "negative")
		assert.ErrorIs(t, err, graph.ErrShapeMismatch, e.OpName)
	}
}

func TestBinGemmRejectsFloat64(t *testing.T) {
	_, err := CreateBinGemm2A1B(operandPair(tensor.Float64, 2, 3, 4), nil, "f64")
	assert.ErrorIs(t, err, graph.ErrDTypeMismatch)
}

func TestEntries(t *testing.T) {
	entries := Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, BinGemm2A1BSymbol, entries[0].Symbol)
	assert.Equal(t, UserTimesSymbol, entries[1].Symbol)
}
