package engineconf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/casweep/internal/sweep"
)

func TestRender(t *testing.T) {
	c := sweep.Combination{
		Periodic:         "yes",
		Method:           "Moore",
		Size:             20,
		SeedCount:        10,
		MCIterationCount: 1,
		MCTemperature:    0.6,
	}

	want := "periodic=yes\n" +
		"method=Moore\n" +
		"x_size=20\n" +
		"y_size=20\n" +
		"z_size=20\n" +
		"random_seeds=10\n" +
		"MC_iterations=1\n" +
		"MC_kt=0.6\n"

	if got := string(Render(c)); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []sweep.Combination{
		{Periodic: "yes", Method: "Moore", Size: 20, SeedCount: 10, MCIterationCount: 1, MCTemperature: 0.6},
		{Periodic: "no", Method: "VonNeumann", Size: 100, SeedCount: 1000, MCIterationCount: 25, MCTemperature: 1},
		{Periodic: "yes", Method: "Moore", Size: 1, SeedCount: 1, MCIterationCount: 3, MCTemperature: 0.125},
	}

	for _, want := range tests {
		t.Run(want.Key(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, want); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := Parse(&buf)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != want {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale=1\n", 20)), 0644); err != nil {
		t.Fatal(err)
	}

	c := sweep.Combination{Periodic: "no", Method: "Moore", Size: 30, SeedCount: 100, MCIterationCount: 2, MCTemperature: 0.9}
	if err := WriteFile(path, c); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("previous content was not replaced")
	}
	if n := strings.Count(string(data), "\n"); n != 8 {
		t.Errorf("file has %d lines, want 8", n)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != c {
		t.Errorf("ReadFile() = %+v, want %+v", got, c)
	}
}

func TestWriteFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.txt")
	c := sweep.Combination{Periodic: "yes", Method: "Moore", Size: 20, SeedCount: 10, MCIterationCount: 1, MCTemperature: 0.6}
	if err := WriteFile(path, c); err == nil {
		t.Error("WriteFile() expected error for missing directory")
	}
}

func TestParse_Errors(t *testing.T) {
	full := string(Render(sweep.Combination{Periodic: "yes", Method: "Moore", Size: 20, SeedCount: 10, MCIterationCount: 1, MCTemperature: 0.6}))

	tests := []struct {
		name  string
		input string
	}{
		{"missing key", strings.Replace(full, "MC_kt=0.6\n", "", 1)},
		{"non uniform size", strings.Replace(full, "z_size=20", "z_size=21", 1)},
		{"bad integer", strings.Replace(full, "random_seeds=10", "random_seeds=ten", 1)},
		{"bad float", strings.Replace(full, "MC_kt=0.6", "MC_kt=warm", 1)},
		{"no separator", full + "garbage\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("Parse() expected error")
			}
		})
	}
}
