package main

import (
	"fmt"

	"github.com/abhimishr/gcam-core/batch"
	"github.com/abhimishr/gcam-core/macrunner"
	"github.com/abhimishr/gcam-core/policycost"
	"github.com/abhimishr/gcam-core/simulation/synthetic"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <scenario.yaml>...",
		Short: "Run several scenarios side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger()

			jobs := make([]batch.Job, 0, len(args))

			for _, file := range args {
				scenario, err := synthetic.LoadScenario(file)
				if err != nil {
					return fmt.Errorf("load scenario %s: %w", file, err)
				}

				jobs = append(jobs, batch.Job{
					Name: scenario.Name,
					NewModel: func() (macrunner.Model, error) {
						return synthetic.NewSimulation(scenario, logger)
					},
				})
			}

			o, err := newOutputs(cmd, cfg, logger)
			if err != nil {
				return err
			}
			defer o.Close()

			workers, _ := cmd.Flags().GetInt("workers")

			var failed int

			for _, outcome := range batch.NewBatch(cfg, workers, logger, o.opts...).Run(cmd.Context(), jobs) {
				if outcome.Err != nil {
					failed++

					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", outcome.Scenario, outcome.Err)

					continue
				}

				printResult(cmd, outcome.Scenario, outcome.Success, outcomeResult{outcome.Result})
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(jobs))
			}

			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "Scenarios run at once, all when 0")

	return cmd
}

type outcomeResult struct {
	r *policycost.Result
}

func (o outcomeResult) Result() (*policycost.Result, bool) {
	return o.r, o.r != nil
}
