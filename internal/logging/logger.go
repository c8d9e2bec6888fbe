// Package logging provides the harness's two outputs besides the report:
// a leveled slog.Logger for human-readable progress on stderr, and, at
// debug or trace level, an EventJournal of sweep milestones for tooling.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/casweep/internal/constants"
)

// LevelTrace is a custom slog level below Debug.
// At this level the engine command line and every artifact move are logged.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
// format "json" selects the JSON handler; anything else uses text.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Event names a sweep milestone recorded in the journal.
type Event string

// Journal events, in the order a sweep emits them. A sweep that stops early
// ends with EventSweepAborted instead of EventReportWritten/EventSweepFinished.
const (
	EventSweepStarted  Event = "sweep_started"
	EventRunFinished   Event = "run_finished"
	EventReportWritten Event = "report_written"
	EventSweepFinished Event = "sweep_finished"
	EventSweepAborted  Event = "sweep_aborted"
)

// EventJournal is the machine-readable trail of a sweep. Every sweep opened
// at debug or trace level appends its events to .casweep/events.jsonl, one
// JSON object per line, so the file accumulates the history of all verbose
// sweeps. Each line carries:
//
//	event       the Event name
//	sweep_id    the ledger ID of the sweep, to join lines to the run ledger
//	seq         1-based position of the event within this sweep
//	elapsed_ms  milliseconds since the journal was opened
//	time        wall-clock time in RFC 3339 (UTC)
//
// plus the event's own fields. A nil *EventJournal records nothing, so
// callers hold one unconditionally.
type EventJournal struct {
	mu      sync.Mutex
	file    *os.File
	enc     *json.Encoder
	sweepID string
	opened  time.Time
	seq     int
}

// NewEventJournal opens dir/events.jsonl for append on behalf of sweepID.
// It returns nil at "info" level, or when the file cannot be opened; a
// missing journal never fails a sweep.
func NewEventJournal(dir, level, sweepID string) *EventJournal {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, constants.EventsFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &EventJournal{
		file:    f,
		enc:     json.NewEncoder(f),
		sweepID: sweepID,
		opened:  time.Now(),
	}
}

// Record appends one event. The journal's own keys take precedence over
// fields of the same name; fields itself is left untouched. Events that
// cannot be encoded are dropped.
func (j *EventJournal) Record(event Event, fields map[string]any) {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return
	}

	now := time.Now()
	j.seq++

	entry := make(map[string]any, len(fields)+5)
	for k, v := range fields {
		entry[k] = v
	}
	entry["event"] = string(event)
	entry["sweep_id"] = j.sweepID
	entry["seq"] = j.seq
	entry["elapsed_ms"] = now.Sub(j.opened).Milliseconds()
	entry["time"] = now.UTC().Format(time.RFC3339Nano)

	_ = j.enc.Encode(entry)
}

// Close closes the journal file. Later Record calls are ignored.
func (j *EventJournal) Close() {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		j.file.Close()
		j.file = nil
	}
}
