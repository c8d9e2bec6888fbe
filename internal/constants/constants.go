// Package constants provides named constants used throughout the casweep codebase.
// This centralizes file names and wire-contract keys shared by the harness and the engine.
package constants

// Engine file contract. The engine reads ConfigFileName from its working
// directory and writes BoardFileName there; TimingFileName receives its stdout.
const (
	// ConfigFileName is the configuration file the engine reads on startup.
	ConfigFileName = "config.txt"

	// TimingFileName is the fixed file that receives the engine's stdout.
	TimingFileName = "time.txt"

	// BoardFileName is the board-state file the engine writes when it finishes.
	BoardFileName = "board.txt"
)

// Engine launch defaults. These match the original benchmark setup of a
// six-process MPI launch of the automaton binary.
const (
	// DefaultLauncher is the parallel launcher used to start the engine.
	DefaultLauncher = "mpiexec"

	// DefaultWorkerCount is the number of engine processes passed to the launcher.
	DefaultWorkerCount = 6

	// DefaultExecutable is the engine binary, relative to the engine directory.
	DefaultExecutable = "./CellularAutomaton"
)

// Results directory layout.
const (
	// DefaultResultsDir is where keyed artifacts are collected.
	DefaultResultsDir = "output"

	// DefaultReportFile is the aggregate report path.
	DefaultReportFile = "results.csv"

	// StagingDirName holds per-run artifacts until they are renamed into place.
	// It lives inside the results directory and is removed after each run.
	StagingDirName = ".staging"

	// TimingArtifactPrefix and BoardArtifactPrefix prefix the artifact key in
	// result file names: time_<key>.txt and board_<key>.txt.
	TimingArtifactPrefix = "time"
	BoardArtifactPrefix  = "board"

	// ArtifactExt is the extension of every keyed artifact.
	ArtifactExt = ".txt"

	// KeyDelimiter joins combination fields into an artifact key.
	KeyDelimiter = "_"
)

// State directory for ledger and event journal.
const (
	// StateDirName is the per-project directory for harness state.
	StateDirName = ".casweep"

	// LedgerFileName is the SQLite run ledger inside StateDirName.
	LedgerFileName = "ledger.db"

	// EventsFileName is the JSONL event journal inside StateDirName.
	EventsFileName = "events.jsonl"

	// ProjectConfigFileName is looked up in the project root when --config is not given.
	ProjectConfigFileName = "casweep.yaml"
)

// Timing-report metric names emitted by the engine.
const (
	MetricReadConfig          = "ReadConfig"
	MetricStructureGeneration = "Structure_generation"
	MetricMonteCarlo          = "MonteCarlo"
	MetricWriteToFile         = "WriteToFile"
	MetricIterations          = "Iterations"
	MetricMCIterations        = "MCiterations"
)
