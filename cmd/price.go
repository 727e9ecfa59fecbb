package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gasometer/backfill/internal/costcontrol"
)

func newPriceCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "price [MODEL...]",
		Short: "Show the pricing a model id resolves to",
		Long: "Price prints the per-million-token rates each model id is billed at and the rule that\n" +
			"matched it: exact, a family fallback, or the default (latest Opus).",
		RunE: func(cmd *cobra.Command, args []string) error {
			models := args
			if list || len(models) == 0 {
				models = costcontrol.KnownModels()
			}
			return printPricing(cmd, models)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List every model in the pricing table")

	return cmd
}

func printPricing(cmd *cobra.Command, models []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "MODEL\tMATCH\tINPUT\tOUTPUT\tCACHE READ\tCACHE WRITE")
	for _, m := range models {
		p := costcontrol.GetModelPricing(m)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m, costcontrol.ModelFamily(m),
			rate(p.InputPerMTok), rate(p.OutputPerMTok),
			rate(p.CacheReadPerMTok), rate(p.CacheWritePerMTok))
	}
	return tw.Flush()
}

func rate(perMTok float64) string {
	return fmt.Sprintf("$%.2f", perMTok)
}
