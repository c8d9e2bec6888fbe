package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nvandessel/casweep/internal/config"
	"github.com/nvandessel/casweep/internal/ledger"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [sweep-id]",
		Short: "Show recorded sweeps and their runs",
		Long: `Show sweeps recorded in the run ledger, newest first.

With a sweep ID, list that sweep's runs in order with their exit codes
and durations. The ledger outlives the results directory, so failed runs
of earlier sweeps remain visible here.

Examples:
  casweep history
  casweep history --limit 5
  casweep history 3f0c2a9e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			root, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return fmt.Errorf("the run ledger is disabled (ledger.enabled: false)")
			}

			l, err := ledger.Open(cmd.Context(), config.Resolve(root, cfg.Ledger.Path))
			if err != nil {
				return fmt.Errorf("failed to open ledger: %w", err)
			}
			defer l.Close()

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				runs, err := l.Runs(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(out).Encode(map[string]interface{}{
						"sweep_id": args[0],
						"runs":     runs,
					})
				}
				if len(runs) == 0 {
					fmt.Fprintf(out, "No runs recorded for sweep %s\n", args[0])
					return nil
				}
				for _, r := range runs {
					line := fmt.Sprintf("%4d  %-40s %-6s exit=%-4d %s", r.Seq+1, r.Key, r.Status, r.ExitCode, r.Duration.Round(time.Millisecond))
					if r.LaunchError != "" {
						line += "  " + r.LaunchError
					}
					fmt.Fprintln(out, line)
				}
				return nil
			}

			sweeps, err := l.RecentSweeps(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"sweeps": sweeps,
					"count":  len(sweeps),
				})
			}
			if len(sweeps) == 0 {
				fmt.Fprintln(out, "No sweeps recorded.")
				return nil
			}
			for _, s := range sweeps {
				state := "incomplete"
				if s.Finished() {
					state = "finished in " + s.FinishedAt.Sub(s.StartedAt).Round(time.Second).String()
				}
				fmt.Fprintf(out, "%s  %s  %d combinations  %s\n",
					s.ID, humanize.Time(s.StartedAt), s.Combinations, state)
				fmt.Fprintf(out, "    %s\n", s.EngineCommand)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of sweeps to show")

	return cmd
}
