package sweep

import (
	"math"
	"strings"
	"testing"
)

func baseCombination() Combination {
	return Combination{
		Periodic:         "yes",
		Method:           "Moore",
		Size:             20,
		SeedCount:        10,
		MCIterationCount: 1,
		MCTemperature:    0.6,
	}
}

func TestCombination_Key(t *testing.T) {
	c := baseCombination()
	if got, want := c.Key(), "yes_Moore_20_10_1_0.6"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if c.Key() != c.Key() {
		t.Error("Key() is not deterministic")
	}
}

func TestCombination_KeyDiffersPerField(t *testing.T) {
	base := baseCombination()
	mutations := []struct {
		name   string
		mutate func(*Combination)
	}{
		{"periodic", func(c *Combination) { c.Periodic = "no" }},
		{"method", func(c *Combination) { c.Method = "VonNeumann" }},
		{"size", func(c *Combination) { c.Size = 30 }},
		{"seeds", func(c *Combination) { c.SeedCount = 100 }},
		{"mc iterations", func(c *Combination) { c.MCIterationCount = 2 }},
		{"mc temperature", func(c *Combination) { c.MCTemperature = 0.7 }},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			c := base
			m.mutate(&c)
			if c.Key() == base.Key() {
				t.Errorf("changing %s did not change key %q", m.name, base.Key())
			}
		})
	}
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.6, "0.6"},
		{1, "1.0"},
		{0, "0.0"},
		{0.125, "0.125"},
		{2.5, "2.5"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{0.000015, "1.5e-05"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{1.5e20, "1.5e+20"},
		{-0.25, "-0.25"},
		{math.Inf(1), "inf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTemperature(tt.in); got != tt.want {
				t.Errorf("FormatTemperature(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCombination_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Combination)
		wantErr string
	}{
		{"valid", func(c *Combination) {}, ""},
		{"empty periodic", func(c *Combination) { c.Periodic = "" }, "periodic"},
		{"method with equals", func(c *Combination) { c.Method = "a=b" }, "method"},
		{"method with newline", func(c *Combination) { c.Method = "Moore\n" }, "method"},
		{"zero size", func(c *Combination) { c.Size = 0 }, "size"},
		{"negative seeds", func(c *Combination) { c.SeedCount = -1 }, "seed"},
		{"zero mc iterations", func(c *Combination) { c.MCIterationCount = 0 }, "MC iteration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseCombination()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
