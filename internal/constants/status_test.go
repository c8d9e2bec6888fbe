package constants

import "testing"

func TestRunStatus_Valid(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   bool
	}{
		{RunStatusOK, true},
		{RunStatusFailed, true},
		{RunStatus(""), false},
		{RunStatus("crashed"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("RunStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRunStatus_String(t *testing.T) {
	if got := RunStatusFailed.String(); got != "failed" {
		t.Errorf("String() = %q, want %q", got, "failed")
	}
}
