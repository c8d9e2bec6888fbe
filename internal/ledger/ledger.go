// Package ledger records sweeps and their run outcomes in a SQLite database,
// so failed or partial sweeps remain inspectable after the results directory
// has been replaced by the next sweep.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nvandessel/casweep/internal/constants"

	_ "modernc.org/sqlite" // SQLite driver
)

// Sweep is one harness invocation over a parameter space.
type Sweep struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time // zero while running or if the sweep aborted
	Combinations  int
	ResultsDir    string
	EngineCommand string
}

// Finished reports whether the sweep completed every run.
func (s Sweep) Finished() bool { return !s.FinishedAt.IsZero() }

// Run is the recorded outcome of one engine run.
type Run struct {
	SweepID     string
	Seq         int
	Key         string
	Status      constants.RunStatus
	ExitCode    int
	LaunchError string
	StartedAt   time.Time
	Duration    time.Duration
}

// Ledger is a SQLite-backed run ledger. It is safe for concurrent use.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the ledger database at path.
func Open(ctx context.Context, path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Ledger{db: db, path: path}, nil
}

// Path returns the database file path.
func (l *Ledger) Path() string { return l.path }

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// BeginSweep records the start of a sweep.
func (l *Ledger) BeginSweep(ctx context.Context, s Sweep) error {
	if s.ID == "" {
		return fmt.Errorf("sweep ID is required")
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO sweeps (id, started_at, combinations, results_dir, engine_command) VALUES (?, ?, ?, ?, ?)`,
		s.ID, formatTime(s.StartedAt), s.Combinations, s.ResultsDir, s.EngineCommand)
	if err != nil {
		return fmt.Errorf("failed to insert sweep: %w", err)
	}
	return nil
}

// FinishSweep marks a sweep as completed.
func (l *Ledger) FinishSweep(ctx context.Context, id string, finishedAt time.Time) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE sweeps SET finished_at = ? WHERE id = ?`, formatTime(finishedAt), id)
	if err != nil {
		return fmt.Errorf("failed to finish sweep: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sweep %s not found", id)
	}
	return nil
}

// RecordRun stores one run outcome. Recording the same (sweep, seq) twice
// replaces the earlier row.
func (l *Ledger) RecordRun(ctx context.Context, r Run) error {
	if !r.Status.Valid() {
		return fmt.Errorf("invalid run status %q", r.Status)
	}
	var launchErr sql.NullString
	if r.LaunchError != "" {
		launchErr = sql.NullString{String: r.LaunchError, Valid: true}
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (sweep_id, seq, artifact_key, status, exit_code, launch_error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SweepID, r.Seq, r.Key, string(r.Status), r.ExitCode, launchErr,
		formatTime(r.StartedAt), r.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecentSweeps returns up to limit sweeps, newest first.
func (l *Ledger) RecentSweeps(ctx context.Context, limit int) ([]Sweep, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, combinations, results_dir, engine_command
		 FROM sweeps ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweeps: %w", err)
	}
	defer rows.Close()

	var sweeps []Sweep
	for rows.Next() {
		var (
			s          Sweep
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(&s.ID, &startedAt, &finishedAt, &s.Combinations, &s.ResultsDir, &s.EngineCommand); err != nil {
			return nil, fmt.Errorf("failed to scan sweep: %w", err)
		}
		s.StartedAt = parseTime(startedAt)
		if finishedAt.Valid {
			s.FinishedAt = parseTime(finishedAt.String)
		}
		sweeps = append(sweeps, s)
	}
	return sweeps, rows.Err()
}

// Runs returns the runs of a sweep in enumeration order.
func (l *Ledger) Runs(ctx context.Context, sweepID string) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT seq, artifact_key, status, exit_code, launch_error, started_at, duration_ms
		 FROM runs WHERE sweep_id = ? ORDER BY seq`, sweepID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			status     string
			launchErr  sql.NullString
			startedAt  string
			durationMs int64
		)
		if err := rows.Scan(&r.Seq, &r.Key, &status, &r.ExitCode, &launchErr, &startedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.SweepID = sweepID
		r.Status = constants.RunStatus(status)
		r.LaunchError = launchErr.String
		r.StartedAt = parseTime(startedAt)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
