package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/casweep/internal/config"
	"github.com/nvandessel/casweep/internal/ledger"
	"github.com/spf13/cobra"
)

func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old sweeps from the run ledger",
		Long: `Delete sweeps and their runs from the run ledger. A sweep is kept if it
is among the --keep most recent OR started within --max-age.
Artifacts in the results directory are not touched.

Examples:
  casweep prune --keep 20
  casweep prune --keep 5 --max-age 2w`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			keep, _ := cmd.Flags().GetInt("keep")
			maxAge, _ := cmd.Flags().GetString("max-age")

			if keep < 0 {
				return fmt.Errorf("--keep must not be negative")
			}
			policies := []ledger.RetentionPolicy{&ledger.CountPolicy{MaxCount: keep}}
			if maxAge != "" {
				d, err := ledger.ParseDuration(maxAge)
				if err != nil {
					return fmt.Errorf("invalid --max-age: %w", err)
				}
				policies = append(policies, &ledger.AgePolicy{MaxAge: d})
			}

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

			deleted, err := l.Prune(cmd.Context(), &ledger.CompositePolicy{Policies: policies})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"deleted": deleted,
					"count":   len(deleted),
				})
			}
			fmt.Fprintf(out, "Pruned %d sweeps\n", len(deleted))
			return nil
		},
	}

	cmd.Flags().Int("keep", 10, "Number of most recent sweeps to keep")
	cmd.Flags().String("max-age", "", "Also keep sweeps younger than this (e.g. 30d, 2w, 720h)")

	return cmd
}
