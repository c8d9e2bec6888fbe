package orchestrator

import (
	"time"

	"github.com/nvandessel/casweep/internal/constants"
	"github.com/nvandessel/casweep/internal/sweep"
)

// Outcome is the result of one engine run.
type Outcome struct {
	// Seq is the run's position in enumeration order.
	Seq         int
	Combination sweep.Combination
	Key         string

	// ExitCode is the engine's exit code, or -1 if it could not be launched
	// or was terminated by a signal.
	ExitCode int

	// LaunchErr is set when the engine process could not be started.
	LaunchErr error

	StartedAt time.Time
	Duration  time.Duration

	// TimingPath and BoardPath are the keyed artifact paths. They are empty
	// if the run aborted before its artifacts were saved.
	TimingPath string
	BoardPath  string
}

// OK reports whether the engine started and exited with code zero.
func (o Outcome) OK() bool {
	return o.LaunchErr == nil && o.ExitCode == 0
}

// Status summarizes the outcome.
func (o Outcome) Status() constants.RunStatus {
	if o.OK() {
		return constants.RunStatusOK
	}
	return constants.RunStatusFailed
}
