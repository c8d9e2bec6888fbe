package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nvandessel/casweep/internal/constants"
)

// Combination is one fully-specified set of sweep parameters.
type Combination struct {
	Periodic         string
	Method           string
	Size             int
	SeedCount        int
	MCIterationCount int
	MCTemperature    float64
}

// Fields returns the six combination values as strings, in key order.
func (c Combination) Fields() []string {
	return []string{
		c.Periodic,
		c.Method,
		strconv.Itoa(c.Size),
		strconv.Itoa(c.SeedCount),
		strconv.Itoa(c.MCIterationCount),
		FormatTemperature(c.MCTemperature),
	}
}

// Key returns the artifact key: the six fields joined by the key delimiter.
// For example, yes_Moore_20_10_1_0.6.
func (c Combination) Key() string {
	return strings.Join(c.Fields(), constants.KeyDelimiter)
}

// String implements fmt.Stringer with the comma-separated form used in progress logs.
func (c Combination) String() string {
	return strings.Join(c.Fields(), ", ")
}

// Validate checks the combination against the engine's value expectations.
func (c Combination) Validate() error {
	if err := validateText("periodic", c.Periodic); err != nil {
		return err
	}
	if err := validateText("method", c.Method); err != nil {
		return err
	}
	if c.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", c.Size)
	}
	if c.SeedCount <= 0 {
		return fmt.Errorf("seed count must be positive, got %d", c.SeedCount)
	}
	if c.MCIterationCount <= 0 {
		return fmt.Errorf("MC iteration count must be positive, got %d", c.MCIterationCount)
	}
	return nil
}

// FormatTemperature renders a temperature the way Python's str(float) does:
// the shortest round-trip digits, positional with a forced fractional part
// when the decimal exponent is in [-4, 16), scientific otherwise.
// For example 0.6 → "0.6", 1 → "1.0", 1e-05 → "1e-05", 1e16 → "1e+16".
func FormatTemperature(kt float64) string {
	switch {
	case math.IsNaN(kt):
		return "nan"
	case math.IsInf(kt, 1):
		return "inf"
	case math.IsInf(kt, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(kt, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(kt, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// validateText rejects values the key=value config format cannot carry.
func validateText(name, v string) error {
	if v == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	if strings.ContainsAny(v, "=\r\n") {
		return fmt.Errorf("%s value %q contains '=' or a line break", name, v)
	}
	return nil
}
