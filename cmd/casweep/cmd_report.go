package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/casweep/internal/config"
	"github.com/nvandessel/casweep/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate the timing artifacts in the results directory",
		Long: `Re-aggregate every time_<key>.txt in the results directory into the
report without running the engine.

The CSV report has one row per artifact: the key, the four scalar timings,
then one column per Iterations sample and one per MCiterations sample.
Rows with shorter series are padded with blank cells. The arrow format
writes an Arrow IPC file with the same columns, blanks as nulls; with
--out - it writes the Arrow IPC stream format instead.

Examples:
  casweep report
  casweep report --format arrow --out results.arrow
  casweep report --out -            # write CSV to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			outPath, _ := cmd.Flags().GetString("out")
			formatFlag, _ := cmd.Flags().GetString("format")

			root, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			format := cfg.Output.Format
			if formatFlag != "" {
				format = report.Format(formatFlag)
				if !format.Valid() {
					return fmt.Errorf("invalid format: %s (valid: csv, arrow)", formatFlag)
				}
			}

			resultsDir := config.Resolve(root, cfg.Output.ResultsDir)
			out := cmd.OutOrStdout()

			if outPath == "-" {
				table, err := report.Collect(resultsDir)
				if err != nil {
					return fmt.Errorf("failed to collect results: %w", err)
				}
				return table.Write(out, format)
			}

			if outPath == "" {
				outPath = cfg.Output.Report
			}
			outPath = config.Resolve(root, outPath)

			rows, err := writeReport(resultsDir, outPath, format)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"report":      outPath,
					"format":      format,
					"rows":        rows,
					"results_dir": resultsDir,
				})
			}
			fmt.Fprintf(out, "Wrote %d rows to %s\n", rows, outPath)
			return nil
		},
	}

	cmd.Flags().String("out", "", "Report path, or - for stdout (default from config)")
	cmd.Flags().String("format", "", "Report format: csv or arrow (default from config)")

	return cmd
}
