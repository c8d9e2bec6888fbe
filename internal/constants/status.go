package constants

// RunStatus summarizes how an engine run ended.
type RunStatus string

const (
	// RunStatusOK indicates the engine exited with code zero.
	RunStatusOK RunStatus = "ok"

	// RunStatusFailed indicates a non-zero exit or a launch failure.
	RunStatusFailed RunStatus = "failed"
)

// Valid returns true if the status is a recognized value.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusOK, RunStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s RunStatus) String() string {
	return string(s)
}
