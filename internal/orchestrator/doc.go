// Package orchestrator drives the external engine once per sweep combination.
//
// For each combination the orchestrator writes the engine configuration into
// the engine directory, launches the engine there as a blocking subprocess,
// and moves the run's timing and board artifacts into the results directory
// under names carrying the combination's artifact key.
//
// Runs are strictly sequential: every run shares the engine directory and its
// fixed config and board file names. The engine's stdout is captured straight
// into a per-run staging file, and artifacts only reach their keyed names once
// both exist, so a results directory never holds half of a run.
//
// The engine's exit status is reported in Outcome but does not stop a sweep.
// A run whose engine never produced a board file aborts the sweep with
// ErrArtifactMissing.
package orchestrator
