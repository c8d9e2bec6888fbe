package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"time"

	"github.com/nvandessel/casweep/internal/sweep"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine for a single combination",
		Long: `Run the engine once for the combination given by flags and save its
artifacts into the results directory. Unlike sweep, the results directory
is not cleared and no report is written; use 'casweep report' afterwards
to aggregate.

Example:
  casweep run --size 50 --seeds 100 --mc-kt 0.8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			root, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c := sweep.Combination{}
			c.Periodic, _ = cmd.Flags().GetString("periodic")
			c.Method, _ = cmd.Flags().GetString("method")
			c.Size, _ = cmd.Flags().GetInt("size")
			c.SeedCount, _ = cmd.Flags().GetInt("seeds")
			c.MCIterationCount, _ = cmd.Flags().GetInt("mc-iterations")
			c.MCTemperature, _ = cmd.Flags().GetFloat64("mc-kt")
			if err := c.Validate(); err != nil {
				return fmt.Errorf("invalid combination: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), stopSignals...)
			defer stop()

			stderr := cmd.ErrOrStderr()
			logger := newLogger(cfg, stderr)
			orch := newOrchestrator(root, cfg, logger, stderr)

			rec, err := openRecorder(ctx, root, cfg, logger)
			if err != nil {
				return err
			}
			defer rec.close()

			if err := orch.EnsureResults(); err != nil {
				return err
			}
			if err := rec.begin(ctx, 1, orch); err != nil {
				return fmt.Errorf("failed to record sweep: %w", err)
			}

			outcome, err := orch.Run(ctx, 0, c)
			if err != nil {
				rec.abort(err)
				return err
			}
			rec.observe(ctx, outcome)
			if err := rec.finish(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				result := map[string]interface{}{
					"sweep_id":    rec.sweepID,
					"key":         outcome.Key,
					"status":      outcome.Status(),
					"exit_code":   outcome.ExitCode,
					"duration_ms": outcome.Duration.Milliseconds(),
					"timing":      outcome.TimingPath,
					"board":       outcome.BoardPath,
				}
				if outcome.LaunchErr != nil {
					result["launch_error"] = outcome.LaunchErr.Error()
				}
				return json.NewEncoder(out).Encode(result)
			}

			fmt.Fprintf(out, "Run %s: %s (exit %d, %s)\n", outcome.Key, outcome.Status(), outcome.ExitCode, outcome.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "  timing: %s\n", outcome.TimingPath)
			fmt.Fprintf(out, "  board:  %s\n", outcome.BoardPath)
			return nil
		},
	}

	cmd.Flags().String("periodic", "yes", "Boundary condition flag")
	cmd.Flags().String("method", "Moore", "Neighborhood method (Moore or VonNeumann)")
	cmd.Flags().Int("size", 20, "Edge length of the cubic grid")
	cmd.Flags().Int("seeds", 10, "Number of random seeds")
	cmd.Flags().Int("mc-iterations", 1, "Monte Carlo iteration count")
	cmd.Flags().Float64("mc-kt", 0.6, "Monte Carlo temperature")

	return cmd
}
