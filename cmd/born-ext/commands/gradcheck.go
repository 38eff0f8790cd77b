package commands

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

func gradcheckCmd() *cobra.Command {
	var (
		flags operandFlags
		eps   float64
		tol   float64
	)
	cmd := &cobra.Command{
		Use:   "gradcheck",
		Short: "Compare analytic gradients with central differences",
		Long: `Checks d sum(op(W, x)) against central differences for every input that
needs a gradient. Operators with straight-through gradients, such as
BinMul2A1B, are not expected to pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			operands, err := flags.operands()
			if err != nil {
				return err
			}
			attrs, err := parseAttrs(flags.attrs)
			if err != nil {
				return err
			}
			fn, err := appCtx.Registry.Create(flags.op, operands, attrs, flags.name)
			if err != nil {
				return err
			}
			values, err := flags.values(operands, appCtx.Backend.Device())
			if err != nil {
				return err
			}

			bindings := graph.Bindings{}
			for i, v := range operands {
				bindings[v] = values[i]
			}
			ones, err := tensor.Ones(fn.Output().Shape(), fn.Output().DType(), appCtx.Backend.Device())
			if err != nil {
				return err
			}
			_, grads, err := graph.Gradients(fn, bindings, ones, appCtx.Backend)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			worst := 0.0
			for i, in := range operands {
				analytic, ok := grads[in]
				if !ok {
					fmt.Fprintf(w, "%-4s skipped\n", in.Name())
					continue
				}
				numeric, err := numericGrad(fn, values, i, eps, appCtx.Backend)
				if err != nil {
					return err
				}
				diff := maxAbsDiff(analytic.Float64s(), numeric)
				worst = math.Max(worst, diff)
				fmt.Fprintf(w, "%-4s max|analytic-numeric|=%.3g\n", in.Name(), diff)
			}
			if worst > tol {
				return fmt.Errorf("gradcheck %s: max error %.3g exceeds tolerance %.3g", fn.OpName(), worst, tol)
			}
			fmt.Fprintln(w, "ok")
			return nil
		},
	}
	flags.register(cmd.Flags(), tensor.Float64.String())
	cmd.Flags().Float64Var(&eps, "eps", 1e-6, "finite difference step")
	cmd.Flags().Float64Var(&tol, "tol", 1e-5, "maximum accepted absolute error")
	return cmd
}

// numericGrad estimates d sum(fn(values)) / d values[idx] by central differences.
func numericGrad(fn graph.Function, values []*tensor.RawTensor, idx int, eps float64, backend tensor.Backend) ([]float64, error) {
	perturbed := make([]*tensor.RawTensor, len(values))
	copy(perturbed, values)
	x := values[idx].Clone()
	perturbed[idx] = x

	eval := func() (float64, error) {
		out, _, err := fn.Forward(perturbed, backend)
		if err != nil {
			return 0, err
		}
		return sumOf(out), nil
	}

	grad := make([]float64, x.NumElements())
	for i := range grad {
		orig := get(x, i)
		set(x, i, orig+eps)
		plus, err := eval()
		if err != nil {
			return nil, err
		}
		set(x, i, orig-eps)
		minus, err := eval()
		if err != nil {
			return nil, err
		}
		set(x, i, orig)
		grad[i] = (plus - minus) / (2 * eps)
	}
	return grad, nil
}

func get(t *tensor.RawTensor, i int) float64 {
	if t.DType() == tensor.Float32 {
		return float64(t.AsFloat32()[i])
	}
	return t.AsFloat64()[i]
}

func set(t *tensor.RawTensor, i int, v float64) {
	if t.DType() == tensor.Float32 {
		t.AsFloat32()[i] = float32(v)
		return
	}
	t.AsFloat64()[i] = v
}

func maxAbsDiff(a, b []float64) float64 {
	worst := 0.0
	for i := range a {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}
