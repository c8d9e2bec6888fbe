// Package timing parses the engine's timing report: one metric per line in
// the form MetricName=v1,v2,v3.
package timing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Result maps a metric name to the non-negative integer samples reported for it.
// Scalar metrics carry their value in element 0; sequence metrics carry one
// sample per simulation step and may be empty.
type Result map[string][]int64

// Scalar returns the first sample of name.
// ok is false when the metric is absent or has no samples.
func (r Result) Scalar(name string) (v int64, ok bool) {
	samples, found := r[name]
	if !found || len(samples) == 0 {
		return 0, false
	}
	return samples[0], true
}

// Series returns the samples of name and whether the metric was reported at all.
func (r Result) Series(name string) ([]int64, bool) {
	samples, ok := r[name]
	return samples, ok
}

// Parse reads a timing report from r. It only fails if r does.
//
// Each line is split on '='. The first field is the metric name and the
// second, the text between the first and second '=', is split on ','; any
// further fields are ignored.
// Tokens that are not made entirely of ASCII digits (negatives, decimals,
// empty tokens from a trailing comma, padded tokens) are dropped without
// error. Lines with no '=' are skipped. A metric name that appears twice
// keeps the samples of its last line.
func Parse(r io.Reader) (Result, error) {
	result := make(Result)
	scanner := bufio.NewScanner(r)
	// Per-step series of long runs can exceed the default 64KB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Split(line, "=")
		if len(parts) < 2 {
			continue
		}
		result[parts[0]] = parseSamples(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading timing report: %w", err)
	}

	return result, nil
}

// ParseFile parses the timing report at path.
func ParseFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening timing report: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseSamples(s string) []int64 {
	samples := []int64{}
	for _, tok := range strings.Split(s, ",") {
		if !isDigits(tok) {
			continue
		}
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			// out of int64 range
			continue
		}
		samples = append(samples, v)
	}
	return samples
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
