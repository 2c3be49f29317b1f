package main

import (
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
)

const tradingDays = 252

func newEstimateCmd() *cobra.Command {
	var returns, prices []float64

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate GBM drift and volatility from log returns or prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(prices) > 0 {
				var err error
				if returns, err = finance.LogReturns(prices); err != nil {
					return err
				}
			}
			mu, sigma, err := finance.EstimateParameters(returns)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout(), "GBM parameter estimate")
			t.AppendHeader(table.Row{"", "per step", "annualized (252)"})
			t.AppendRows([]table.Row{
				{"mu", num(mu), num(mu * tradingDays)},
				{"sigma", num(sigma), num(sigma * math.Sqrt(tradingDays))},
			})
			t.AppendFooter(table.Row{"observations", len(returns), ""})
			alignNumbers(t, 2, 3)
			t.Render()
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&returns, "returns", nil, "comma separated log returns")
	cmd.Flags().Float64SliceVar(&prices, "prices", nil, "comma separated prices, converted to log returns")
	cmd.MarkFlagsOneRequired("returns", "prices")
	cmd.MarkFlagsMutuallyExclusive("returns", "prices")
	return cmd
}
