package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nvandessel/casweep/internal/constants"
	"github.com/nvandessel/casweep/internal/engineconf"
	"github.com/nvandessel/casweep/internal/logging"
	"github.com/nvandessel/casweep/internal/pathutil"
	"github.com/nvandessel/casweep/internal/sweep"
)

// ErrArtifactMissing is returned when the engine did not produce an expected output file.
var ErrArtifactMissing = errors.New("engine artifact missing")

// Orchestrator runs the engine for sweep combinations and collects artifacts.
// It is not safe for concurrent use.
type Orchestrator struct {
	engine     Engine
	resultsDir string
	logger     *slog.Logger

	// Stderr receives the engine's standard error. Defaults to os.Stderr.
	Stderr io.Writer
}

// New creates an Orchestrator writing artifacts to resultsDir.
func New(engine Engine, resultsDir string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		engine:     engine,
		resultsDir: resultsDir,
		logger:     logger,
		Stderr:     os.Stderr,
	}
}

// Engine returns the engine description.
func (o *Orchestrator) Engine() Engine { return o.engine }

// ResultsDir returns the artifact directory.
func (o *Orchestrator) ResultsDir() string { return o.resultsDir }

// ResetResults deletes the results directory wholesale and recreates it empty.
// The directory must lie inside root and must not be, or contain, the engine
// directory. Failure to delete (for example because the directory does not
// exist) is ignored.
func (o *Orchestrator) ResetResults(root string) error {
	if err := pathutil.ValidateRemovable(o.resultsDir, root, o.engine.Dir); err != nil {
		return err
	}

	if err := os.RemoveAll(o.resultsDir); err != nil {
		o.logger.Debug("could not remove previous results", "dir", o.resultsDir, "error", err)
	}

	return o.EnsureResults()
}

// EnsureResults creates the results directory if it does not exist.
func (o *Orchestrator) EnsureResults() error {
	if err := os.MkdirAll(o.resultsDir, 0755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	return nil
}

// Sweep runs every combination of axes in enumeration order. onRun, if not
// nil, is called after each run whose artifacts were saved. The first
// configuration or artifact error aborts the sweep; outcomes of the runs
// completed so far are returned with it.
func (o *Orchestrator) Sweep(ctx context.Context, axes sweep.Axes, onRun func(Outcome)) ([]Outcome, error) {
	var outcomes []Outcome
	seq := 0
	for c := range axes.Combinations() {
		o.logger.Info("performing run",
			"periodic", c.Periodic,
			"method", c.Method,
			"size", c.Size,
			"seeds", c.SeedCount,
			"mc_iterations", c.MCIterationCount,
			"mc_kt", sweep.FormatTemperature(c.MCTemperature),
		)

		out, err := o.Run(ctx, seq, c)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
		if onRun != nil {
			onRun(out)
		}
		seq++
	}

	o.removeStagingRoot()
	return outcomes, nil
}

// Run performs one engine run for c and moves its artifacts into the
// results directory. A non-zero engine exit is reported in the Outcome,
// not as an error.
func (o *Orchestrator) Run(ctx context.Context, seq int, c sweep.Combination) (Outcome, error) {
	key := c.Key()
	out := Outcome{Seq: seq, Combination: c, Key: key, ExitCode: -1}

	if err := engineconf.WriteFile(o.engine.ConfigPath(), c); err != nil {
		return out, fmt.Errorf("run %s: %w", key, err)
	}

	// A board left by an earlier run must not be mistaken for this run's output.
	if err := os.Remove(o.engine.BoardPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return out, fmt.Errorf("run %s: clearing previous board file: %w", key, err)
	}

	staging := filepath.Join(o.resultsDir, constants.StagingDirName, key)
	if err := os.RemoveAll(staging); err != nil {
		return out, fmt.Errorf("run %s: clearing staging directory: %w", key, err)
	}
	if err := os.MkdirAll(staging, 0755); err != nil {
		return out, fmt.Errorf("run %s: creating staging directory: %w", key, err)
	}
	defer os.RemoveAll(staging)

	stagedTiming := filepath.Join(staging, constants.TimingFileName)
	stagedBoard := filepath.Join(staging, constants.BoardFileName)

	out.StartedAt = time.Now()
	if err := o.launch(ctx, &out, stagedTiming); err != nil {
		return out, fmt.Errorf("run %s: %w", key, err)
	}
	out.Duration = time.Since(out.StartedAt)

	if !out.OK() {
		o.logger.Warn("engine run failed",
			"key", key, "exit_code", out.ExitCode, "launch_error", errString(out.LaunchErr))
	}

	boardSize, err := copyFile(o.engine.BoardPath(), stagedBoard)
	if err != nil {
		return out, fmt.Errorf("run %s: %w", key, err)
	}

	timingPath := filepath.Join(o.resultsDir, ArtifactName(constants.TimingArtifactPrefix, key))
	boardPath := filepath.Join(o.resultsDir, ArtifactName(constants.BoardArtifactPrefix, key))
	if err := os.Rename(stagedTiming, timingPath); err != nil {
		return out, fmt.Errorf("run %s: saving timing artifact: %w", key, err)
	}
	if err := os.Rename(stagedBoard, boardPath); err != nil {
		return out, fmt.Errorf("run %s: saving board artifact: %w", key, err)
	}
	out.TimingPath = timingPath
	out.BoardPath = boardPath

	o.logger.Info("artifacts saved",
		"key", key,
		"timing", timingPath,
		"board", boardPath,
		"board_size", humanize.Bytes(uint64(boardSize)),
		"duration", out.Duration.Round(time.Millisecond),
	)
	return out, nil
}

// launch runs the engine in its directory with stdout captured into
// stagedTiming and mirrored to the engine-side timing file. Exit status and
// launch failures are recorded in out; only local file errors are returned.
func (o *Orchestrator) launch(ctx context.Context, out *Outcome, stagedTiming string) error {
	staged, err := os.Create(stagedTiming)
	if err != nil {
		return fmt.Errorf("creating staged timing file: %w", err)
	}
	defer staged.Close()

	engineTiming, err := os.Create(o.engine.TimingPath())
	if err != nil {
		return fmt.Errorf("creating engine timing file: %w", err)
	}
	defer engineTiming.Close()

	argv := o.engine.Argv()
	o.logger.Log(ctx, logging.LevelTrace, "launching engine", "dir", o.engine.Dir, "argv", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = o.engine.Dir
	cmd.Stdout = io.MultiWriter(staged, engineTiming)
	cmd.Stderr = o.Stderr

	runErr := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		out.ExitCode = 0
	case errors.As(runErr, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		out.LaunchErr = runErr
	}

	if err := staged.Close(); err != nil {
		return fmt.Errorf("closing staged timing file: %w", err)
	}
	return nil
}

// removeStagingRoot drops the staging directory once it is empty.
func (o *Orchestrator) removeStagingRoot() {
	_ = os.Remove(filepath.Join(o.resultsDir, constants.StagingDirName))
}

// ArtifactName returns the keyed artifact file name, e.g. time_<key>.txt.
func ArtifactName(prefix, key string) string {
	return prefix + constants.KeyDelimiter + key + constants.ArtifactExt
}

// copyFile copies src to dst and returns the number of bytes copied.
// A missing src is reported as ErrArtifactMissing.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrArtifactMissing, pathutil.RedactPath(src))
		}
		return 0, fmt.Errorf("opening %s: %w", pathutil.RedactPath(src), err)
	}
	defer in.Close()

	outFile, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", pathutil.RedactPath(dst), err)
	}

	n, err := io.Copy(outFile, in)
	if err != nil {
		outFile.Close()
		return 0, fmt.Errorf("copying %s: %w", pathutil.RedactPath(src), err)
	}
	if err := outFile.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", pathutil.RedactPath(dst), err)
	}
	return n, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
