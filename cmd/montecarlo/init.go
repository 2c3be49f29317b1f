package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/montecarlo/config"
	"github.com/wyfcoding/montecarlo/xerrors"
)

func newInitCmd() *cobra.Command {
	var (
		portfolio bool
		out       string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example SimConfig JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(out); err == nil {
					return xerrors.Wrap(os.ErrExist, xerrors.ErrAlreadyExists,
						fmt.Sprintf("%s already exists, use --force to overwrite", out))
				}
			}
			if err := config.SaveSimConfig(config.ExampleSimConfig(portfolio), out); err != nil {
				return err
			}

			kind := "single instrument"
			if portfolio {
				kind = "portfolio"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s example config to %s\n", kind, out)
			return err
		},
	}

	cmd.Flags().BoolVar(&portfolio, "portfolio", false, "write a portfolio (version 2) config instead of a single instrument one")
	cmd.Flags().StringVar(&out, "out", "sim_config.json", "output path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
