package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvandessel/casweep/internal/constants"
	"github.com/nvandessel/casweep/internal/timing"
)

// KeyFromFilename extracts the artifact key from a timing artifact name,
// e.g. "time_yes_Moore_20_10_1_0.6.txt" → "yes_Moore_20_10_1_0.6".
func KeyFromFilename(name string) (string, bool) {
	prefix := constants.TimingArtifactPrefix + constants.KeyDelimiter
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, constants.ArtifactExt) {
		return "", false
	}
	key := strings.TrimSuffix(strings.TrimPrefix(name, prefix), constants.ArtifactExt)
	if key == "" {
		return "", false
	}
	return key, true
}

// Collect parses every timing artifact in dir into a table. Rows follow
// directory listing order. Keys come from file names, not file contents.
func Collect(dir string) (*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading results directory: %w", err)
	}

	t := NewTable()
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		key, ok := KeyFromFilename(e.Name())
		if !ok {
			continue
		}
		r, err := timing.ParseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		t.Add(key, r)
	}
	return t, nil
}
