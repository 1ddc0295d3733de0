package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindcheck/internal/llm"
)

func newEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the configured generation engines and their pricing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(rt.engines) == 0 {
				fmt.Fprintln(out, "No engines configured (offline). Standard wording is used.")
				return rt.finish(commandContext(cmd), out)
			}

			fmt.Fprintf(out, "%-3s  %-40s  %-28s  %10s  %10s\n",
				"#", "Engine", "Model", "In $/MTok", "Out $/MTok")
			fmt.Fprintln(out, strings.Repeat("─", 98))
			for i, e := range rt.engines {
				in, outCost := "n/a", "n/a"
				if c := llm.LookupCost(e.Provider.ModelID()); c != nil {
					in = fmt.Sprintf("%.2f", c.InputPerMTok)
					outCost = fmt.Sprintf("%.2f", c.OutputPerMTok)
				}
				fmt.Fprintf(out, "%-3d  %-40s  %-28s  %10s  %10s\n",
					i+1, e.Name, e.Provider.ModelID(), in, outCost)
			}
			return rt.finish(commandContext(cmd), out)
		},
	}
}
