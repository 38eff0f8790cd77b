package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/born-ext/internal/autodiff"
	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/tensor"
)

func runCmd() *cobra.Command {
	var (
		flags    operandFlags
		savePath string
		loadPath string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an operator forward and backward over random operands",
		Long: `Builds the operator named by --op (or the one serialized in --load) over a
weight parameter W [m, k] and an input x [k, n], evaluates sum(op(W, x)) and
backpropagates through the autodiff tape.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			operands, err := flags.operands()
			if err != nil {
				return err
			}

			var fn graph.Function
			if loadPath != "" {
				data, err := os.ReadFile(loadPath)
				if err != nil {
					return err
				}
				fn, err = appCtx.Registry.Unmarshal(data, operands)
				if err != nil {
					return err
				}
			} else {
				attrs, err := parseAttrs(flags.attrs)
				if err != nil {
					return err
				}
				fn, err = appCtx.Registry.Create(flags.op, operands, attrs, flags.name)
				if err != nil {
					return err
				}
			}

			if savePath != "" {
				data, err := appCtx.Registry.Marshal(fn)
				if err != nil {
					return err
				}
				if err := os.WriteFile(savePath, data, 0o644); err != nil {
					return err
				}
				appCtx.Logger.Info("function saved", zap.String("op", fn.OpName()), zap.String("path", savePath))
			}

			values, err := flags.values(operands, appCtx.Backend.Device())
			if err != nil {
				return err
			}

			backend := autodiff.New(appCtx.Backend)
			backend.Tape().StartRecording()
			out, err := backend.Apply(fn, values)
			if err != nil {
				return err
			}
			loss := backend.Sum(out)
			grads, err := autodiff.Backward(loss, backend)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "op:      %s (%s)\n", fn.OpName(), fn.Name())
			fmt.Fprintf(w, "backend: %s\n", appCtx.Backend.Name())
			fmt.Fprintf(w, "output:  %s %s\n", out.Shape(), out.DType())
			fmt.Fprintf(w, "sum:     %.6g\n", sumOf(loss))
			for i, in := range fn.Inputs() {
				g, ok := grads[values[i]]
				if !ok || !in.NeedsGradient() {
					fmt.Fprintf(w, "grad %-4s none\n", in.Name())
					continue
				}
				fmt.Fprintf(w, "grad %-4s |g|=%.6g\n", in.Name(), l2Norm(g))
			}
			return writeMetrics(w)
		},
	}
	flags.register(cmd.Flags(), tensor.Float32.String())
	cmd.Flags().StringVar(&savePath, "save", "", "write the serialized function to this file")
	cmd.Flags().StringVar(&loadPath, "load", "", "build the function from a file written by --save")
	return cmd
}
