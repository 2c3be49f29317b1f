package main

import (
	"github.com/spf13/cobra"

	"github.com/wyfcoding/montecarlo/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          serviceName,
		Short:        "Monte Carlo price path simulator",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "warn", "log level for local commands (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(),
		newServeCmd(),
		newEstimateCmd(),
		newInitCmd(),
	)
	return root
}

// cliLogger 本地命令的日志写到 stderr，不干扰表格输出.
func cliLogger(cmd *cobra.Command) *logging.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.NewFromConfig(logging.Config{
		Service: serviceName,
		Module:  "cli",
		Level:   level,
		Output:  cmd.ErrOrStderr(),
	})
}
