package timing

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sampleReport = `ReadConfig=3
Iterations=12,14,13,
Structure_generation=41
MCiterations=7,8,
MonteCarlo=16
WriteToFile=2
`

func TestParse_SampleReport(t *testing.T) {
	r, err := Parse(strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	scalars := map[string]int64{
		"ReadConfig":           3,
		"Structure_generation": 41,
		"MonteCarlo":           16,
		"WriteToFile":          2,
	}
	for name, want := range scalars {
		got, ok := r.Scalar(name)
		if !ok {
			t.Errorf("Scalar(%q) missing", name)
			continue
		}
		if got != want {
			t.Errorf("Scalar(%q) = %d, want %d", name, got, want)
		}
	}

	if got, _ := r.Series("Iterations"); !slices.Equal(got, []int64{12, 14, 13}) {
		t.Errorf("Iterations = %v, want [12 14 13]", got)
	}
	if got, _ := r.Series("MCiterations"); !slices.Equal(got, []int64{7, 8}) {
		t.Errorf("MCiterations = %v, want [7 8]", got)
	}
}

func TestParse_TokenFiltering(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []int64
	}{
		{"mixed junk", "Iterations=1,2,abc,-3,4.5,5", []int64{1, 2, 5}},
		{"trailing comma", "Iterations=1,2,", []int64{1, 2}},
		{"empty value", "Iterations=", []int64{}},
		{"spaces are not digits", "Iterations=1, 2,3", []int64{1, 3}},
		{"leading zeros", "Iterations=007", []int64{7}},
		{"overflow dropped", "Iterations=99999999999999999999,4", []int64{4}},
		{"plus sign dropped", "Iterations=+4,4", []int64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(strings.NewReader(tt.line))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got, ok := r.Series("Iterations")
			if !ok {
				t.Fatal("Iterations missing")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Iterations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_LastWriteWins(t *testing.T) {
	r, err := Parse(strings.NewReader("MonteCarlo=1\nMonteCarlo=9\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, _ := r.Scalar("MonteCarlo"); got != 9 {
		t.Errorf("MonteCarlo = %d, want 9", got)
	}
}

func TestParse_NeverFailsOnContent(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"no separator here",
		"=1,2",
		"a=b=c",
		"Iterations=\x00,\xff",
	}
	for _, in := range inputs {
		if _, err := Parse(strings.NewReader(in)); err != nil {
			t.Errorf("Parse(%q) error = %v", in, err)
		}
	}
}

func TestParse_SecondEqualsTruncates(t *testing.T) {
	r, err := Parse(strings.NewReader("Iterations=1,2=3,4"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	// Only the text between the first and second '=' is read.
	if got, _ := r.Series("Iterations"); !slices.Equal(got, []int64{1, 2}) {
		t.Errorf("Iterations = %v, want [1 2]", got)
	}
}

func TestResult_ScalarMissing(t *testing.T) {
	r := Result{"ReadConfig": {}}
	if _, ok := r.Scalar("ReadConfig"); ok {
		t.Error("Scalar() ok for empty samples")
	}
	if _, ok := r.Scalar("MonteCarlo"); ok {
		t.Error("Scalar() ok for absent metric")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time.txt")
	if err := os.WriteFile(path, []byte(sampleReport), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(r) != 6 {
		t.Errorf("got %d metrics, want 6", len(r))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("ParseFile() expected error for missing file")
	}
}
