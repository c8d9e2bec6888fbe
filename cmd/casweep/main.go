package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nvandessel/casweep/internal/config"
	"github.com/nvandessel/casweep/internal/logging"
	"github.com/nvandessel/casweep/internal/orchestrator"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "casweep",
		Short: "Benchmark sweep harness for the cellular automaton engine",
		Long: `casweep runs the cellular automaton engine once for every combination
of the configured parameter axes, collects each run's timing report and
final board, and aggregates all timing reports into a single table.

Configuration is read from casweep.yaml in the project root, or from
the file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <root>/casweep.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSweepCmd(),
		newRunCmd(),
		newPlanCmd(),
		newReportCmd(),
		newHistoryCmd(),
		newPruneCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

// loadConfig resolves the project root and loads its validated configuration.
func loadConfig(cmd *cobra.Command) (string, *config.SweepConfig, error) {
	root, _ := cmd.Flags().GetString("root")
	path, _ := cmd.Flags().GetString("config")

	root, err := filepath.Abs(root)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg, err := config.Load(root, path)
	if err != nil {
		return "", nil, err
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return root, cfg, nil
}

func newLogger(cfg *config.SweepConfig, w io.Writer) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, w)
}

// newOrchestrator builds an orchestrator with every configured path resolved against root.
func newOrchestrator(root string, cfg *config.SweepConfig, logger *slog.Logger, stderr io.Writer) *orchestrator.Orchestrator {
	engine := orchestrator.Engine{
		Dir:          config.Resolve(root, cfg.Engine.Dir),
		Launcher:     cfg.Engine.Launcher,
		LauncherArgs: cfg.Engine.LauncherArgs,
		Workers:      cfg.Engine.Workers,
		Executable:   cfg.Engine.Executable,
		ConfigFile:   cfg.Engine.ConfigFile,
		TimingFile:   cfg.Engine.TimingFile,
		BoardFile:    cfg.Engine.BoardFile,
	}
	o := orchestrator.New(engine, config.Resolve(root, cfg.Output.ResultsDir), logger)
	o.Stderr = stderr
	return o
}
