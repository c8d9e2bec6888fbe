package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nvandessel/casweep/internal/config"
	"github.com/nvandessel/casweep/internal/constants"
	"github.com/nvandessel/casweep/internal/ledger"
	"github.com/nvandessel/casweep/internal/logging"
	"github.com/nvandessel/casweep/internal/metrics"
	"github.com/nvandessel/casweep/internal/orchestrator"
)

// recorder fans run outcomes out to the ledger, the event journal and the
// metrics collector. The ledger and journal are optional.
type recorder struct {
	sweepID string
	ledger  *ledger.Ledger
	journal *logging.EventJournal
	metrics *metrics.Collector
	logger  *slog.Logger

	root string
	cfg  *config.SweepConfig
}

// openRecorder assigns a new sweep ID and opens the configured sinks.
func openRecorder(ctx context.Context, root string, cfg *config.SweepConfig, logger *slog.Logger) (*recorder, error) {
	r := &recorder{
		sweepID: uuid.NewString(),
		metrics: metrics.New(),
		logger:  logger,
		root:    root,
		cfg:     cfg,
	}

	if cfg.Ledger.Enabled {
		l, err := ledger.Open(ctx, config.Resolve(root, cfg.Ledger.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		r.ledger = l
	}

	r.journal = logging.NewEventJournal(filepath.Join(root, constants.StateDirName), cfg.Logging.Level, r.sweepID)
	return r, nil
}

// begin records the start of a sweep over combinations runs.
func (r *recorder) begin(ctx context.Context, combinations int, o *orchestrator.Orchestrator) error {
	r.metrics.SetCombinations(combinations)
	r.journal.Record(logging.EventSweepStarted, map[string]any{
		"combinations": combinations,
		"engine":       o.Engine().CommandLine(),
		"results_dir":  o.ResultsDir(),
	})
	r.logger.Info("sweep started",
		"sweep_id", r.sweepID,
		"combinations", combinations,
		"engine", o.Engine().CommandLine(),
	)

	if r.ledger == nil {
		return nil
	}
	return r.ledger.BeginSweep(ctx, ledger.Sweep{
		ID:            r.sweepID,
		StartedAt:     time.Now(),
		Combinations:  combinations,
		ResultsDir:    o.ResultsDir(),
		EngineCommand: o.Engine().CommandLine(),
	})
}

// observe records one saved run. Ledger failures are logged, not returned,
// so bookkeeping never stops a sweep.
func (r *recorder) observe(ctx context.Context, out orchestrator.Outcome) {
	r.metrics.ObserveRun(out.Status(), out.Duration)
	r.journal.Record(logging.EventRunFinished, map[string]any{
		"seq":         out.Seq,
		"key":         out.Key,
		"status":      out.Status().String(),
		"exit_code":   out.ExitCode,
		"duration_ms": out.Duration.Milliseconds(),
	})

	if r.ledger == nil {
		return
	}
	run := ledger.Run{
		SweepID:   r.sweepID,
		Seq:       out.Seq,
		Key:       out.Key,
		Status:    out.Status(),
		ExitCode:  out.ExitCode,
		StartedAt: out.StartedAt,
		Duration:  out.Duration,
	}
	if out.LaunchErr != nil {
		run.LaunchError = out.LaunchErr.Error()
	}
	if err := r.ledger.RecordRun(ctx, run); err != nil {
		r.logger.Warn("failed to record run in ledger", "key", out.Key, "error", err)
	}
}

// abort records a sweep that stopped before completing.
func (r *recorder) abort(err error) {
	r.journal.Record(logging.EventSweepAborted, map[string]any{"error": err.Error()})
	r.writeMetrics()
}

// finish marks the sweep complete and exports metrics.
func (r *recorder) finish(ctx context.Context) error {
	now := time.Now()
	r.metrics.MarkCompleted(now)
	r.journal.Record(logging.EventSweepFinished, nil)

	if r.ledger != nil {
		if err := r.ledger.FinishSweep(ctx, r.sweepID, now); err != nil {
			return err
		}
	}
	return r.writeMetrics()
}

func (r *recorder) writeMetrics() error {
	if r.cfg.Metrics.Textfile == "" {
		return nil
	}
	path := config.Resolve(r.root, r.cfg.Metrics.Textfile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := r.metrics.WriteTextfile(path); err != nil {
		r.logger.Warn("failed to write metrics textfile", "path", path, "error", err)
		return err
	}
	r.logger.Debug("metrics written", "path", path)
	return nil
}

func (r *recorder) close() {
	r.journal.Close()
	if r.ledger != nil {
		if err := r.ledger.Close(); err != nil {
			r.logger.Debug("failed to close ledger", "error", err)
		}
	}
}
