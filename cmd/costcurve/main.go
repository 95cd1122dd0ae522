package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhimishr/gcam-core/config"
	"github.com/sgostarter/i/l"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "costcurve",
		Short: "Total policy cost calculator",
		Long: `costcurve sweeps a carbon tax from zero to a scenario's policy tax,
builds marginal abatement cost curves from the emission reductions and
integrates them into regional and global policy costs.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config yaml, defaults are used when empty")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write prometheus metrics to this file when done")
	rootCmd.PersistentFlags().String("snapshots", "", "Archive every trial's emissions curves under this directory")
	rootCmd.PersistentFlags().Duration("stall-timeout", 0, "Warn when a single trial run takes longer than this")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newBatchCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "costcurve version %s\n", version)
		},
	}
}

func loadConfig(cmd *cobra.Command) (cfg config.Config, err error) {
	file, _ := cmd.Flags().GetString("config")
	if file == "" {
		cfg = config.Default()

		return
	}

	cfg, err = config.Load(file)
	if err != nil {
		err = fmt.Errorf("load config %s: %w", file, err)
	}

	return
}

func newLogger() l.Wrapper {
	return l.NewConsoleLoggerWrapper()
}
