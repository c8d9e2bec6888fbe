// Package engineconf renders sweep combinations into the engine's key=value
// configuration file and reads such files back.
package engineconf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nvandessel/casweep/internal/sweep"
)

// Configuration keys, in the order they are written.
const (
	KeyPeriodic     = "periodic"
	KeyMethod       = "method"
	KeyXSize        = "x_size"
	KeyYSize        = "y_size"
	KeyZSize        = "z_size"
	KeyRandomSeeds  = "random_seeds"
	KeyMCIterations = "MC_iterations"
	KeyMCKt         = "MC_kt"
)

// Render returns the eight configuration lines for c.
// The single size value is applied to all three spatial dimensions.
// Values are written verbatim with no quoting.
func Render(c sweep.Combination) []byte {
	size := strconv.Itoa(c.Size)
	lines := [][2]string{
		{KeyPeriodic, c.Periodic},
		{KeyMethod, c.Method},
		{KeyXSize, size},
		{KeyYSize, size},
		{KeyZSize, size},
		{KeyRandomSeeds, strconv.Itoa(c.SeedCount)},
		{KeyMCIterations, strconv.Itoa(c.MCIterationCount)},
		{KeyMCKt, sweep.FormatTemperature(c.MCTemperature)},
	}

	var buf bytes.Buffer
	for _, kv := range lines {
		buf.WriteString(kv[0])
		buf.WriteByte('=')
		buf.WriteString(kv[1])
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write renders c to w.
func Write(w io.Writer, c sweep.Combination) error {
	if _, err := w.Write(Render(c)); err != nil {
		return fmt.Errorf("writing engine config: %w", err)
	}
	return nil
}

// WriteFile renders c to path, replacing any previous content.
func WriteFile(path string, c sweep.Combination) error {
	if err := os.WriteFile(path, Render(c), 0644); err != nil {
		return fmt.Errorf("writing engine config: %w", err)
	}
	return nil
}

// Parse reads an engine configuration and recovers the combination it was
// rendered from. Unknown keys are ignored. All three spatial sizes must agree.
func Parse(r io.Reader) (sweep.Combination, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return sweep.Combination{}, fmt.Errorf("malformed config line %q", line)
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return sweep.Combination{}, fmt.Errorf("reading engine config: %w", err)
	}

	for _, k := range []string{KeyPeriodic, KeyMethod, KeyXSize, KeyYSize, KeyZSize, KeyRandomSeeds, KeyMCIterations, KeyMCKt} {
		if _, ok := values[k]; !ok {
			return sweep.Combination{}, fmt.Errorf("missing config key %q", k)
		}
	}

	if values[KeyXSize] != values[KeyYSize] || values[KeyXSize] != values[KeyZSize] {
		return sweep.Combination{}, fmt.Errorf("non-uniform size %sx%sx%s",
			values[KeyXSize], values[KeyYSize], values[KeyZSize])
	}

	c := sweep.Combination{
		Periodic: values[KeyPeriodic],
		Method:   values[KeyMethod],
	}

	var err error
	if c.Size, err = atoi(values, KeyXSize); err != nil {
		return sweep.Combination{}, err
	}
	if c.SeedCount, err = atoi(values, KeyRandomSeeds); err != nil {
		return sweep.Combination{}, err
	}
	if c.MCIterationCount, err = atoi(values, KeyMCIterations); err != nil {
		return sweep.Combination{}, err
	}
	if c.MCTemperature, err = strconv.ParseFloat(values[KeyMCKt], 64); err != nil {
		return sweep.Combination{}, fmt.Errorf("parsing %s: %w", KeyMCKt, err)
	}

	return c, nil
}

// ReadFile parses the engine configuration at path.
func ReadFile(path string) (sweep.Combination, error) {
	f, err := os.Open(path)
	if err != nil {
		return sweep.Combination{}, fmt.Errorf("opening engine config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func atoi(values map[string]string, key string) (int, error) {
	n, err := strconv.Atoi(values[key])
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}
