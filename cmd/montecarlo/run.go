package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/montecarlo/config"
	"github.com/wyfcoding/montecarlo/montecarlo"
	"github.com/wyfcoding/montecarlo/xerrors"
)

func newRunCmd() *cobra.Command {
	var (
		simPath     string
		historyPath string
		format      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation described by a SimConfig JSON file",
		Long: "Run a single instrument (version 1) or portfolio (version 2) simulation.\n" +
			"--history points to a JSON file of log returns: an array for a single instrument,\n" +
			"or an object keyed by symbol for a portfolio. Bootstrap models require it.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return xerrors.InvalidArg("--format must be table or json")
			}

			cfg, err := config.LoadSimConfig(simPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			engine := montecarlo.NewEngine(
				montecarlo.WithLogger(cliLogger(cmd)),
				montecarlo.WithConcurrency(concurrency),
			)
			out := cmd.OutOrStdout()

			if cfg.IsPortfolio() {
				var history map[string][]float64
				if err := readHistory(historyPath, &history); err != nil {
					return err
				}
				req, err := cfg.PortfolioRequest(montecarlo.NewHistoricalReturns(history))
				if err != nil {
					return err
				}
				res, err := engine.SimulatePortfolio(cmd.Context(), req)
				if err != nil {
					return err
				}
				if format == "json" {
					return writeJSON(out, res.Stats)
				}
				allocs, err := montecarlo.Allocate(cfg.Portfolio)
				if err != nil {
					return err
				}
				renderPortfolio(out, cfg.Portfolio.TotalCapital, res.Stats, allocs)
				return nil
			}

			var history []float64
			if err := readHistory(historyPath, &history); err != nil {
				return err
			}
			req, err := cfg.SingleRequest(history)
			if err != nil {
				return err
			}
			res, err := engine.Simulate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(out, res.Stats)
			}
			renderSingle(out, req.InitialPrice, res.Stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&simPath, "sim", "", "path to SimConfig JSON file")
	cmd.Flags().StringVar(&historyPath, "history", "", "path to historical log returns JSON file")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "worker count, 0 uses GOMAXPROCS")
	_ = cmd.MarkFlagRequired("sim")
	return cmd
}

// readHistory path 为空时保持 v 不变.
func readHistory(path string, v any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return xerrors.WrapInternal(err, "read history file")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return xerrors.Wrap(err, xerrors.ErrInvalidArg, "decode history file")
	}
	return nil
}
