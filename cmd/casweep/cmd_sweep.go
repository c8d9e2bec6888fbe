package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nvandessel/casweep/internal/config"
	"github.com/nvandessel/casweep/internal/logging"
	"github.com/nvandessel/casweep/internal/orchestrator"
	"github.com/nvandessel/casweep/internal/report"
	"github.com/spf13/cobra"
)

// sweepSummary is the result of a completed sweep.
type sweepSummary struct {
	SweepID      string `json:"sweep_id"`
	Combinations int    `json:"combinations"`
	Failed       int    `json:"failed"`
	ResultsDir   string `json:"results_dir"`
	Report       string `json:"report"`
	Rows         int    `json:"rows"`
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the engine for every combination and write the report",
		Long: `Run the full benchmark sweep.

The results directory is deleted and recreated, then the engine is run
once per combination of the configured axes, in order: periodic, method,
size, seeds, MC iterations, MC temperature (the last varies fastest).
Each run's timing report and final board are saved as time_<key>.txt and
board_<key>.txt. When every run has finished, all timing reports in the
results directory are aggregated into the report file.

A run whose engine exits non-zero is logged and the sweep continues.
A run that leaves no board file aborts the sweep.

Examples:
  casweep sweep
  casweep sweep --config bench.yaml
  CASWEEP_WORKERS=12 casweep sweep --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			root, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), stopSignals...)
			defer stop()

			summary, err := runSweep(ctx, root, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(summary)
			}
			fmt.Fprintf(out, "Sweep %s finished: %d runs (%d failed)\n", summary.SweepID, summary.Combinations, summary.Failed)
			fmt.Fprintf(out, "Artifacts: %s\n", summary.ResultsDir)
			fmt.Fprintf(out, "Report:    %s (%d rows)\n", summary.Report, summary.Rows)
			return nil
		},
	}
}

// runSweep resets the results directory, runs every combination and writes
// the aggregate report. Logs and engine stderr go to stderr.
func runSweep(ctx context.Context, root string, cfg *config.SweepConfig, stderr io.Writer) (*sweepSummary, error) {
	logger := newLogger(cfg, stderr)
	orch := newOrchestrator(root, cfg, logger, stderr)

	rec, err := openRecorder(ctx, root, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer rec.close()

	if err := orch.ResetResults(root); err != nil {
		return nil, fmt.Errorf("failed to reset results directory: %w", err)
	}

	total := cfg.Axes.Count()
	if err := rec.begin(ctx, total, orch); err != nil {
		return nil, fmt.Errorf("failed to record sweep: %w", err)
	}

	summary := &sweepSummary{
		SweepID:      rec.sweepID,
		Combinations: total,
		ResultsDir:   orch.ResultsDir(),
		Report:       config.Resolve(root, cfg.Output.Report),
	}

	_, err = orch.Sweep(ctx, cfg.Axes, func(out orchestrator.Outcome) {
		if !out.OK() {
			summary.Failed++
		}
		rec.observe(ctx, out)
	})
	if err != nil {
		rec.abort(err)
		return nil, fmt.Errorf("sweep %s aborted: %w", rec.sweepID, err)
	}

	rows, err := writeReport(orch.ResultsDir(), summary.Report, cfg.Output.Format)
	if err != nil {
		rec.abort(err)
		return nil, err
	}
	summary.Rows = rows
	logger.Info("report written", "path", summary.Report, "rows", rows, "format", string(cfg.Output.Format))
	rec.journal.Record(logging.EventReportWritten, map[string]any{"path": summary.Report, "rows": rows})

	if err := rec.finish(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

// writeReport aggregates every timing artifact in resultsDir into path.
func writeReport(resultsDir, path string, format report.Format) (int, error) {
	table, err := report.Collect(resultsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to collect results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := table.WriteFile(path, format); err != nil {
		return 0, fmt.Errorf("failed to write report: %w", err)
	}
	return table.Len(), nil
}
