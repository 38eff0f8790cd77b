package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func opsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List registered operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OP\tMODULE\tSYMBOL")
			for _, op := range appCtx.Registry.Ops() {
				reg, _ := appCtx.Registry.Lookup(op)
				module := reg.Module
				if module == "" {
					module = "(static)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", reg.OpName, module, reg.Symbol)
			}
			return w.Flush()
		},
	}
}
