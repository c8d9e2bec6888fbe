package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nvandessel/casweep/internal/constants"
	"github.com/nvandessel/casweep/internal/engineconf"
	"github.com/nvandessel/casweep/internal/orchestrator"
	"github.com/nvandessel/casweep/internal/sweep"
	"github.com/spf13/cobra"
)

// plannedRun is one entry of a sweep plan.
type plannedRun struct {
	Seq            int     `json:"seq"`
	Key            string  `json:"key"`
	Periodic       string  `json:"periodic"`
	Method         string  `json:"method"`
	Size           int     `json:"size"`
	Seeds          int     `json:"seeds"`
	MCIterations   int     `json:"mc_iterations"`
	MCTemperature  float64 `json:"mc_kt"`
	TimingArtifact string  `json:"timing_artifact"`
	BoardArtifact  string  `json:"board_artifact"`
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the combinations a sweep would run",
		Long: `List every combination of the configured axes in run order, with the
artifact key each run's files will be saved under. Nothing is executed.

Use --show-config to print the engine configuration written for each run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			showConfig, _ := cmd.Flags().GetBool("show-config")

			root, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			engine := newOrchestrator(root, cfg, nil, cmd.ErrOrStderr()).Engine()

			if jsonOut {
				runs := planRuns(cfg.Axes)
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"combinations": len(runs),
					"engine":       engine.CommandLine(),
					"engine_dir":   engine.Dir,
					"runs":         runs,
				})
			}

			fmt.Fprintf(out, "Engine: %s (in %s)\n\n", engine.CommandLine(), engine.Dir)
			seq := 0
			for c := range cfg.Axes.Combinations() {
				seq++
				fmt.Fprintf(out, "%4d  %s\n", seq, c.Key())
				if showConfig {
					for _, line := range splitLines(string(engineconf.Render(c))) {
						fmt.Fprintf(out, "        %s\n", line)
					}
				}
			}
			fmt.Fprintf(out, "\n%d combinations\n", seq)
			return nil
		},
	}

	cmd.Flags().Bool("show-config", false, "Print the engine configuration for each run")

	return cmd
}

func planRuns(axes sweep.Axes) []plannedRun {
	runs := make([]plannedRun, 0, axes.Count())
	for c := range axes.Combinations() {
		key := c.Key()
		runs = append(runs, plannedRun{
			Seq:            len(runs),
			Key:            key,
			Periodic:       c.Periodic,
			Method:         c.Method,
			Size:           c.Size,
			Seeds:          c.SeedCount,
			MCIterations:   c.MCIterationCount,
			MCTemperature:  c.MCTemperature,
			TimingArtifact: orchestrator.ArtifactName(constants.TimingArtifactPrefix, key),
			BoardArtifact:  orchestrator.ArtifactName(constants.BoardArtifactPrefix, key),
		})
	}
	return runs
}

// splitLines splits s on newlines, dropping a trailing empty line.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
