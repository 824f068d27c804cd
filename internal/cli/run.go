package cli

import (
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/allocation"
	"github.com/katalvlaran/allotment/internal/config"
	"github.com/katalvlaran/allotment/internal/report"
	"github.com/katalvlaran/allotment/internal/roster"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Allocate every category and write results and stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setup, err := a.setup()
			if err != nil {
				return err
			}
			cats, err := roster.Load(setup)
			if err != nil {
				return err
			}

			rep, runErr := newRunner(a, setup).Run(cmd.Context(), cats...)
			if rep == nil {
				return runErr
			}
			renderReport(cmd.OutOrStdout(), rep)

			if setup.General.Stats != "" {
				stats := report.FromRun(rep, time.Now())
				err = report.WriteFile(cmd.Context(), setup.General.Stats, func(w io.Writer) error {
					return report.Encode(w, stats)
				})
				if err != nil {
					return errors.Join(runErr, err)
				}
				a.logger.Info("stats written", "path", setup.General.Stats, "run_id", rep.RunID)
			}
			if runErr != nil {
				a.logger.Error("no allocation written", "error", runErr)
				return runErr
			}

			if setup.General.Results != "" {
				names := make([]string, len(setup.Categories))
				for i, c := range setup.Categories {
					names[i] = c.Name
				}
				err = report.WriteFile(cmd.Context(), setup.General.Results, func(w io.Writer) error {
					return roster.WriteResults(w, names, rep.Rows())
				})
				if err != nil {
					return err
				}
				a.logger.Info("results written", "path", setup.General.Results, "participants", len(rep.Rows()))
			}

			return nil
		},
	}
}

func newRunner(a *app, setup *config.Setup) *allocation.Runner {
	opts := []allocation.RunnerOption{
		allocation.WithLogger(a.logger),
		allocation.WithThreshold(setup.General.LowAllocThreshold),
		allocation.WithConcurrency(setup.General.Concurrent),
	}
	if setup.Advisor.Disabled {
		opts = append(opts, allocation.WithAdvisor(nil))
	} else {
		opts = append(opts, allocation.WithAdvisor(newAdvisor(a, setup)))
	}

	return allocation.NewRunner(opts...)
}

func newAdvisor(a *app, setup *config.Setup) *advisor.Advisor {
	return advisor.New(
		advisor.WithCeiling(setup.Advisor.Ceiling),
		advisor.WithWorkers(setup.Advisor.Workers),
		advisor.WithLogger(a.logger),
	)
}
