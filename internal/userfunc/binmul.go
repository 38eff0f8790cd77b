package userfunc

import (
	"fmt"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/parallel"
	"github.com/born-ml/born-ext/internal/tensor"
)

// BinMul2A1BOpName is the operator type of BinMul2A1B.
const BinMul2A1BOpName = "BinMul2A1B"

// Attribute keys understood by BinMul2A1B.
const (
	AttrActivationMax  = "activationMax"
	AttrScaleWeights   = "scaleWeights"
	AttrPacked         = "packed"
	AttrClipWeightGrad = "clipWeightGrad"
)

// BinMul2A1B is a binary GEMM with 1-bit weights and 2-bit activations.
//
// Weights are binarised to alpha_m * sign(w) (sign(0) = +1), activations are
// clipped to [0, activationMax] and rounded to four levels. Gradients use the
// straight-through estimator:
//   - dLeft = outputGrad @ q(X)^T, zeroed where |w| > 1 (clipWeightGrad)
//   - dRight = (alpha * sign(W))^T @ outputGrad, zeroed where x is outside [0, activationMax]
//
// Only float32 operands are supported.
type BinMul2A1B struct {
	graph.Base

	activationMax  float32
	scaleWeights   bool
	packed         bool
	clipWeightGrad bool
}

type binMulState struct {
	w, x   *tensor.RawTensor // original operands
	wb, xq *tensor.RawTensor // binarised weights and quantised activations
}

// NewBinMul2A1B creates a BinMul2A1B function over two float32 operands.
func NewBinMul2A1B(operands []*graph.Variable, attributes graph.Dictionary, name string) (*BinMul2A1B, error) {
	outShape, dtype, err := checkMatMulOperands(BinMul2A1BOpName, operands)
	if err != nil {
		return nil, err
	}
	if dtype != tensor.Float32 {
		return nil, fmt.Errorf("%s: only float32 operands are supported, got %s: %w", BinMul2A1BOpName, dtype, graph.ErrDTypeMismatch)
	}

	actMax, err := attributes.GetFloat(AttrActivationMax, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", BinMul2A1BOpName, err)
	}
	if actMax <= 0 {
		return nil, fmt.Errorf("%s: %s must be > 0, got %v: %w", BinMul2A1BOpName, AttrActivationMax, actMax, graph.ErrInvalidAttribute)
	}
	scale, err := attributes.GetBool(AttrScaleWeights, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", BinMul2A1BOpName, err)
	}
	packed, err := attributes.GetBool(AttrPacked, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", BinMul2A1BOpName, err)
	}
	clip, err := attributes.GetBool(AttrClipWeightGrad, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", BinMul2A1BOpName, err)
	}

	return &BinMul2A1B{
		Base:           graph.NewBase(BinMul2A1BOpName, operands, attributes, name, outShape, dtype),
		activationMax:  float32(actMax),
		scaleWeights:   scale,
		packed:         packed,
		clipWeightGrad: clip,
	}, nil
}

// Forward computes the binary product. The packed kernel runs on host memory;
// the reference path goes through backend.MatMul.
func (f *BinMul2A1B) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) (*tensor.RawTensor, graph.BackPropState, error) {
	if err := graph.CheckValues(f, inputs); err != nil {
		return nil, nil, err
	}
	w, x := inputs[0], inputs[1]
	m, k := w.Shape()[0], w.Shape()[1]
	n := x.Shape()[1]

	wData := w.AsFloat32()
	alpha := weightScales(wData, m, k, f.scaleWeights)
	levels := quantizeLevels(x.AsFloat32(), f.activationMax)
	step := f.activationMax / maxLevel

	wb, err := binarisedWeights(wData, alpha, m, k, backend.Device())
	if err != nil {
		return nil, nil, err
	}
	xq, err := levelTensor(levels, step, k, n, backend.Device())
	if err != nil {
		return nil, nil, err
	}

	var out *tensor.RawTensor
	if f.packed {
		out, err = tensor.NewRaw(tensor.Shape{m, n}, tensor.Float32, backend.Device())
		if err != nil {
			return nil, nil, err
		}
		wbits := packWeightSigns(wData, m, k)
		plane0, plane1, colSums := packActivationPlanes(levels, k, n)
		binaryGEMM(out.AsFloat32(), wbits, alpha, plane0, plane1, colSums, m, k, n, step, parallelConfig(backend))
	} else {
		out, err = f.referenceForward(wData, alpha, levels, step, m, k, n, backend)
		if err != nil {
			return nil, nil, err
		}
	}

	return out, &binMulState{w: w, x: x, wb: wb, xq: xq}, nil
}

// referenceForward computes diag(alpha*step) * (sign(W) @ levels) with the backend's
// MatMul. Integer-valued products keep it bit-identical to the packed kernel.
func (f *BinMul2A1B) referenceForward(w []float32, alpha []float32, levels []uint8, step float32, m, k, n int, backend tensor.Backend) (*tensor.RawTensor, error) {
	signs, err := tensor.NewRaw(tensor.Shape{m, k}, tensor.Float32, backend.Device())
	if err != nil {
		return nil, err
	}
	sd := signs.AsFloat32()
	for i, v := range w {
		sd[i] = 1
		if v < 0 {
			sd[i] = -1
		}
	}

	lv, err := levelTensor(levels, 1, k, n, backend.Device())
	if err != nil {
		return nil, err
	}

	out := backend.MatMul(signs, lv)
	od := out.AsFloat32()
	for i := 0; i < m; i++ {
		scale := alpha[i] * step
		for j := 0; j < n; j++ {
			od[i*n+j] *= scale
		}
	}
	return out, nil
}

// Backward applies the straight-through estimator.
func (f *BinMul2A1B) Backward(state graph.BackPropState, outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	st, ok := state.(*binMulState)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected backprop state %T", BinMul2A1BOpName, state)
	}
	inputs := f.Inputs()
	grads := make([]*tensor.RawTensor, 2)

	if inputs[0].NeedsGradient() {
		gw := backend.MatMul(outputGrad, backend.Transpose(st.xq))
		if f.clipWeightGrad {
			mask, err := maskTensor(st.w, func(v float32) bool { return v >= -1 && v <= 1 })
			if err != nil {
				return nil, err
			}
			gw = backend.Mul(gw, mask)
		}
		grads[0] = gw
	}
	if inputs[1].NeedsGradient() {
		gx := backend.MatMul(backend.Transpose(st.wb), outputGrad)
		mask, err := maskTensor(st.x, func(v float32) bool { return v >= 0 && v <= f.activationMax })
		if err != nil {
			return nil, err
		}
		grads[1] = backend.Mul(gx, mask)
	}
	return grads, nil
}

// Clone builds a BinMul2A1B over new operands with the same attributes and name.
func (f *BinMul2A1B) Clone(inputs []*graph.Variable) (graph.Function, error) {
	clone, err := NewBinMul2A1B(inputs, f.Attributes(), f.Name())
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// binarisedWeights returns alpha_m * sign(w) as a tensor.
func binarisedWeights(w []float32, alpha []float32, m, k int, device tensor.Device) (*tensor.RawTensor, error) {
	t, err := tensor.NewRaw(tensor.Shape{m, k}, tensor.Float32, device)
	if err != nil {
		return nil, err
	}
	d := t.AsFloat32()
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			v := alpha[i]
			if w[i*k+kk] < 0 {
				v = -v
			}
			d[i*k+kk] = v
		}
	}
	return t, nil
}

// levelTensor returns level * step as a [k, n] tensor.
func levelTensor(levels []uint8, step float32, k, n int, device tensor.Device) (*tensor.RawTensor, error) {
	t, err := tensor.NewRaw(tensor.Shape{k, n}, tensor.Float32, device)
	if err != nil {
		return nil, err
	}
	d := t.AsFloat32()
	for i, l := range levels {
		d[i] = float32(l) * step
	}
	return t, nil
}

// maskTensor returns 1 where keep(v) holds and 0 elsewhere.
func maskTensor(src *tensor.RawTensor, keep func(float32) bool) (*tensor.RawTensor, error) {
	t, err := tensor.NewRaw(src.Shape(), tensor.Float32, src.Device())
	if err != nil {
		return nil, err
	}
	d := t.AsFloat32()
	for i, v := range src.AsFloat32() {
		if keep(v) {
			d[i] = 1
		}
	}
	return t, nil
}

// parallelConfig uses the backend's row-split configuration when it has one.
func parallelConfig(backend tensor.Backend) parallel.Config {
	if p, ok := backend.(interface{ Parallel() parallel.Config }); ok {
		return p.Parallel()
	}
	return parallel.DefaultConfig()
}
