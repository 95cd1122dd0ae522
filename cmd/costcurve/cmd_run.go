package main

import (
	"fmt"

	"github.com/abhimishr/gcam-core/macrunner"
	"github.com/abhimishr/gcam-core/policycost"
	"github.com/abhimishr/gcam-core/simulation/synthetic"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run one scenario and compute its policy cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			scenario, err := synthetic.LoadScenario(args[0])
			if err != nil {
				return fmt.Errorf("load scenario %s: %w", args[0], err)
			}

			logger := newLogger()

			sim, err := synthetic.NewSimulation(scenario, logger)
			if err != nil {
				return err
			}

			o, err := newOutputs(cmd, cfg, logger)
			if err != nil {
				return err
			}
			defer o.Close()

			runner, err := macrunner.NewRunner(sim, cfg, logger, o.opts...)
			if err != nil {
				return err
			}
			defer runner.Close()

			success, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			printResult(cmd, scenario.Name, success, runner)

			return nil
		},
	}
}

type resultSource interface {
	Result() (*policycost.Result, bool)
}

func printResult(cmd *cobra.Command, scenario string, success bool, source resultSource) {
	out := cmd.OutOrStdout()

	r, ok := source.Result()
	if !ok {
		fmt.Fprintf(out, "%s: no policy market, nothing to cost\n", scenario)

		return
	}

	status := "ok"
	if !success {
		status = "some trials did not solve"
	}

	fmt.Fprintf(out, "%s (%s)\n", scenario, status)

	for _, region := range r.RegionalCostCurves.Regions() {
		fmt.Fprintf(out, "  %-16s undiscounted %14.4f  discounted %14.4f\n",
			region, r.RegionalCosts[region], r.RegionalDiscountedCosts[region])
	}

	fmt.Fprintf(out, "  %-16s undiscounted %14.4f  discounted %14.4f\n",
		"total", r.GlobalCost, r.GlobalDiscountedCost)
}
