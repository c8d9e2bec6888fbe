package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvandessel/casweep/internal/constants"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), filepath.Join(t.TempDir(), ".casweep", "ledger.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedger_SweepLifecycle(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Sweep{
		ID:            "sweep-a",
		StartedAt:     start,
		Combinations:  2,
		ResultsDir:    "output",
		EngineCommand: "mpiexec -n 6 ./CellularAutomaton",
	}
	if err := l.BeginSweep(ctx, s); err != nil {
		t.Fatalf("BeginSweep() error = %v", err)
	}

	runs := []Run{
		{SweepID: "sweep-a", Seq: 0, Key: "yes_Moore_20_10_1_0.6", Status: constants.RunStatusOK, StartedAt: start, Duration: 1500 * time.Millisecond},
		{SweepID: "sweep-a", Seq: 1, Key: "yes_Moore_30_10_1_0.6", Status: constants.RunStatusFailed, ExitCode: 139, StartedAt: start.Add(2 * time.Second), Duration: 300 * time.Millisecond},
	}
	for _, r := range runs {
		if err := l.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	sweeps, err := l.RecentSweeps(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSweeps() error = %v", err)
	}
	if len(sweeps) != 1 || sweeps[0].Finished() {
		t.Fatalf("expected one unfinished sweep, got %+v", sweeps)
	}

	if err := l.FinishSweep(ctx, "sweep-a", start.Add(time.Minute)); err != nil {
		t.Fatalf("FinishSweep() error = %v", err)
	}

	sweeps, err = l.RecentSweeps(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSweeps() error = %v", err)
	}
	got := sweeps[0]
	if !got.Finished() {
		t.Error("sweep should be finished")
	}
	if !got.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, start)
	}
	if got.EngineCommand != s.EngineCommand || got.Combinations != 2 {
		t.Errorf("sweep = %+v, want fields of %+v", got, s)
	}

	stored, err := l.Runs(ctx, "sweep-a")
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("Runs() returned %d runs, want 2", len(stored))
	}
	if stored[1].Status != constants.RunStatusFailed || stored[1].ExitCode != 139 {
		t.Errorf("run 1 = %+v, want failed with exit 139", stored[1])
	}
	if stored[0].Duration != 1500*time.Millisecond {
		t.Errorf("run 0 duration = %v, want 1.5s", stored[0].Duration)
	}
}

func TestLedger_RecordRunReplaces(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	if err := l.BeginSweep(ctx, Sweep{ID: "s", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	r := Run{SweepID: "s", Seq: 0, Key: "k", Status: constants.RunStatusFailed, ExitCode: -1, LaunchError: "exec: not found", StartedAt: time.Now()}
	if err := l.RecordRun(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.Status = constants.RunStatusOK
	r.ExitCode = 0
	r.LaunchError = ""
	if err := l.RecordRun(ctx, r); err != nil {
		t.Fatal(err)
	}

	runs, err := l.Runs(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != constants.RunStatusOK || runs[0].LaunchError != "" {
		t.Errorf("runs = %+v, want a single ok run", runs)
	}
}

func TestLedger_Validation(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	if err := l.BeginSweep(ctx, Sweep{}); err == nil {
		t.Error("BeginSweep() expected error for empty ID")
	}
	if err := l.RecordRun(ctx, Run{SweepID: "s", Status: "weird"}); err == nil {
		t.Error("RecordRun() expected error for invalid status")
	}
	if err := l.FinishSweep(ctx, "missing", time.Now()); err == nil {
		t.Error("FinishSweep() expected error for unknown sweep")
	}
	if err := l.RecordRun(ctx, Run{SweepID: "missing", Status: constants.RunStatusOK, StartedAt: time.Now()}); err == nil {
		t.Error("RecordRun() expected foreign key error for unknown sweep")
	}
}

func TestLedger_RecentSweepsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		s := Sweep{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := l.BeginSweep(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	sweeps, err := l.RecentSweeps(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sweeps) != 2 || sweeps[0].ID != "third" || sweeps[1].ID != "second" {
		t.Errorf("RecentSweeps(2) = %+v, want third then second", sweeps)
	}
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.BeginSweep(ctx, Sweep{ID: "persisted", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	l.Close()

	l, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer l.Close()

	sweeps, err := l.RecentSweeps(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sweeps) != 1 || sweeps[0].ID != "persisted" {
		t.Errorf("sweeps after reopen = %+v", sweeps)
	}
}
