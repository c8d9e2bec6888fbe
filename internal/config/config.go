// Package config provides configuration loading for casweep.
// It supports loading from a YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/casweep/internal/constants"
	"github.com/nvandessel/casweep/internal/report"
	"github.com/nvandessel/casweep/internal/sweep"
	"gopkg.in/yaml.v3"
)

// SweepConfig contains all casweep configuration settings.
type SweepConfig struct {
	// Engine describes how to launch the simulation engine.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Axes lists the values swept on each configuration axis.
	Axes sweep.Axes `json:"axes" yaml:"axes"`

	// Output contains settings for the results directory and report.
	Output OutputConfig `json:"output" yaml:"output"`

	// Ledger contains settings for the SQLite run ledger.
	Ledger LedgerConfig `json:"ledger" yaml:"ledger"`

	// Metrics contains settings for the Prometheus textfile export.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Logging contains settings for operational logging and the event journal.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// EngineConfig describes the external engine and its file contract.
type EngineConfig struct {
	// Dir is the engine's working directory. config.txt is written here and
	// the engine is started here.
	Dir string `json:"dir" yaml:"dir"`

	// Launcher is the parallel launcher, e.g. "mpiexec". Empty runs the
	// executable directly.
	Launcher string `json:"launcher" yaml:"launcher"`

	// LauncherArgs precede the worker count, e.g. ["-n"].
	LauncherArgs []string `json:"launcher_args,omitempty" yaml:"launcher_args,omitempty"`

	// Workers is the number of engine processes requested from the launcher.
	Workers int `json:"workers" yaml:"workers"`

	// Executable is the engine binary, relative to Dir or absolute.
	Executable string `json:"executable" yaml:"executable"`

	// ConfigFile, TimingFile and BoardFile are the engine's fixed file
	// names inside Dir.
	ConfigFile string `json:"config_file" yaml:"config_file"`
	TimingFile string `json:"timing_file" yaml:"timing_file"`
	BoardFile  string `json:"board_file" yaml:"board_file"`
}

// OutputConfig configures where artifacts and the report are written.
type OutputConfig struct {
	// ResultsDir collects time_<key>.txt and board_<key>.txt.
	// It is deleted and recreated at the start of every sweep.
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// Report is the aggregate report path.
	Report string `json:"report" yaml:"report"`

	// Format is the report encoding: "csv" (default) or "arrow".
	Format report.Format `json:"format" yaml:"format"`
}

// LedgerConfig configures the SQLite run ledger.
type LedgerConfig struct {
	// Enabled records every sweep and run outcome.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the database file. Relative paths are resolved against the project root.
	Path string `json:"path" yaml:"path"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after each sweep. Empty disables the export.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// LoggingConfig configures casweep's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the event journal in .casweep/events.jsonl.
	Level string `json:"level" yaml:"level"`

	// Format selects "text" (default) or "json" log lines.
	Format string `json:"format" yaml:"format"`
}

// Default returns a SweepConfig reproducing the original benchmark setup.
func Default() *SweepConfig {
	return &SweepConfig{
		Engine: EngineConfig{
			Dir:          ".",
			Launcher:     constants.DefaultLauncher,
			LauncherArgs: []string{"-n"},
			Workers:      constants.DefaultWorkerCount,
			Executable:   constants.DefaultExecutable,
			ConfigFile:   constants.ConfigFileName,
			TimingFile:   constants.TimingFileName,
			BoardFile:    constants.BoardFileName,
		},
		Axes: sweep.Axes{
			Periodic:      []string{"yes"},
			Method:        []string{"Moore"},
			Size:          []int{20, 30, 40, 50, 100},
			Seeds:         []int{10, 100, 1000},
			MCIterations:  []int{1},
			MCTemperature: []float64{0.6},
		},
		Output: OutputConfig{
			ResultsDir: constants.DefaultResultsDir,
			Report:     constants.DefaultReportFile,
			Format:     report.FormatCSV,
		},
		Ledger: LedgerConfig{
			Enabled: true,
			Path:    filepath.Join(constants.StateDirName, constants.LedgerFileName),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration for the project at root.
// Order: defaults -> path (or <root>/casweep.yaml if path is empty and it exists) -> environment variables.
func Load(root, path string) (*SweepConfig, error) {
	config := Default()

	if path == "" {
		candidate := filepath.Join(root, constants.ProjectConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Settings absent from the file keep their defaults; an axis present in the
// file replaces the default list entirely.
func LoadFromFile(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *SweepConfig) Validate() error {
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be at least 1, got %d", c.Engine.Workers)
	}
	if c.Engine.Executable == "" {
		return fmt.Errorf("engine.executable must be set")
	}
	if c.Engine.ConfigFile == "" || c.Engine.TimingFile == "" || c.Engine.BoardFile == "" {
		return fmt.Errorf("engine.config_file, engine.timing_file and engine.board_file must be set")
	}

	if err := c.Axes.Validate(); err != nil {
		return fmt.Errorf("axes: %w", err)
	}

	if c.Output.ResultsDir == "" {
		return fmt.Errorf("output.results_dir must be set")
	}
	if c.Output.Report == "" {
		return fmt.Errorf("output.report must be set")
	}
	if !c.Output.Format.Valid() {
		return fmt.Errorf("invalid report format: %s (valid: csv, arrow)", c.Output.Format)
	}

	if c.Ledger.Enabled && c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path must be set when the ledger is enabled")
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if c.Logging.Format != "" && !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json, or empty for default)", c.Logging.Format)
	}

	return nil
}

// Resolve returns path unchanged if absolute, otherwise joined to root.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *SweepConfig) {
	if v := os.Getenv("CASWEEP_ENGINE_DIR"); v != "" {
		config.Engine.Dir = v
	}

	if v := os.Getenv("CASWEEP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Engine.Workers = n
		}
	}

	if v := os.Getenv("CASWEEP_RESULTS_DIR"); v != "" {
		config.Output.ResultsDir = v
	}

	if v := os.Getenv("CASWEEP_REPORT"); v != "" {
		config.Output.Report = v
	}

	if v := os.Getenv("CASWEEP_LEDGER"); v != "" {
		switch v {
		case "off", "false", "0":
			config.Ledger.Enabled = false
		default:
			config.Ledger.Enabled = true
			config.Ledger.Path = v
		}
	}

	if v := os.Getenv("CASWEEP_METRICS_FILE"); v != "" {
		config.Metrics.Textfile = v
	}

	if v := os.Getenv("CASWEEP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
