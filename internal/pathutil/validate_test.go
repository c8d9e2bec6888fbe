package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestValidateRemovable(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "output"), 0755); err != nil {
		t.Fatalf("failed to create output dir: %v", err)
	}

	tests := []struct {
		name        string
		dir         string
		wantErr     bool
		errContains string
	}{
		{
			name: "existing dir inside root",
			dir:  filepath.Join(root, "output"),
		},
		{
			name: "missing dir inside root",
			dir:  filepath.Join(root, "not-yet", "output"),
		},
		{
			name:        "root itself",
			dir:         root,
			wantErr:     true,
			errContains: "project root",
		},
		{
			name:        "root with trailing dot",
			dir:         filepath.Join(root, "."),
			wantErr:     true,
			errContains: "project root",
		},
		{
			name:        "dot-dot escape",
			dir:         filepath.Join(root, "output", "..", ".."),
			wantErr:     true,
			errContains: "outside project root",
		},
		{
			name:        "sibling dir",
			dir:         filepath.Join(other, "output"),
			wantErr:     true,
			errContains: "outside project root",
		},
		{
			name:        "prefix lookalike",
			dir:         root + "-evil",
			wantErr:     true,
			errContains: "outside project root",
		},
		{
			name:        "empty",
			dir:         "",
			wantErr:     true,
			errContains: "empty",
		},
		{
			name:        "null byte",
			dir:         filepath.Join(root, "out\x00put"),
			wantErr:     true,
			errContains: "null byte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRemovable(tt.dir, root)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateRemovable(%q) expected error", tt.dir)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %q, want it to contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateRemovable(%q) unexpected error: %v", tt.dir, err)
			}
		})
	}
}

func TestValidateRemovable_KeepsProtectedPaths(t *testing.T) {
	root := t.TempDir()
	engine := filepath.Join(root, "bench", "engine")
	if err := os.MkdirAll(engine, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{"results beside engine", filepath.Join(root, "output"), false},
		{"results inside engine", filepath.Join(engine, "output"), false},
		{"results equal engine", engine, true},
		{"results contain engine", filepath.Join(root, "bench"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRemovable(tt.dir, root, engine)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRemovable() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "contains") {
				t.Errorf("error = %q, want it to name the protected path", err)
			}
		})
	}

	if err := ValidateRemovable(filepath.Join(root, "output"), root, ""); err != nil {
		t.Errorf("empty keep path should be ignored, got %v", err)
	}
}

func TestValidateRemovable_SymlinkOutsideRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "output")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	if err := ValidateRemovable(link, root); err == nil {
		t.Error("expected symlink escaping the root to be rejected")
	}
}

func TestRedactPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"output", "output"},
		{"/output", "output"},
		{"/home/user/bench/output", ".../bench/output"},
		{"bench/output/", ".../bench/output"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := RedactPath(tt.input); got != tt.want {
				t.Errorf("RedactPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
