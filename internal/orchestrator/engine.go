package orchestrator

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Engine describes how to launch the simulation engine and where its files live.
type Engine struct {
	// Dir is the working directory of every engine run.
	Dir string

	// Launcher, if set, wraps the executable: Launcher LauncherArgs... Workers Executable.
	Launcher     string
	LauncherArgs []string
	Workers      int

	// Executable is resolved relative to Dir when it is a relative path.
	Executable string

	ConfigFile string
	TimingFile string
	BoardFile  string
}

// Argv returns the full engine command line.
func (e Engine) Argv() []string {
	if e.Launcher == "" {
		return []string{e.Executable}
	}
	argv := []string{e.Launcher}
	argv = append(argv, e.LauncherArgs...)
	argv = append(argv, strconv.Itoa(e.Workers), e.Executable)
	return argv
}

// CommandLine returns Argv joined by spaces, for logs and the ledger.
func (e Engine) CommandLine() string {
	return strings.Join(e.Argv(), " ")
}

// ConfigPath is the engine configuration file path.
func (e Engine) ConfigPath() string { return filepath.Join(e.Dir, e.ConfigFile) }

// TimingPath is the engine-side timing file path.
func (e Engine) TimingPath() string { return filepath.Join(e.Dir, e.TimingFile) }

// BoardPath is the engine-side board file path.
func (e Engine) BoardPath() string { return filepath.Join(e.Dir, e.BoardFile) }
