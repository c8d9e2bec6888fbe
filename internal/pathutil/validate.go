// Package pathutil guards the harness's destructive file operations.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath shortens a path to .../<parent>/<basename> for log and error output.
// For example, "/home/user/bench/output" becomes ".../bench/output".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	base := filepath.Base(cleaned)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// ValidateRemovable checks that dir may be deleted wholesale: it must lie
// strictly inside root once symlinks are resolved, so neither root itself
// nor anything outside it can be removed. Each path in keep (such as the
// engine directory) must also survive, so dir may not equal or contain it.
func ValidateRemovable(dir, root string, keep ...string) error {
	if dir == "" {
		return fmt.Errorf("refusing to remove: path is empty")
	}
	if strings.ContainsRune(dir, '\x00') {
		return fmt.Errorf("refusing to remove: path contains null byte")
	}

	target, err := resolve(dir)
	if err != nil {
		return fmt.Errorf("refusing to remove %q: %w", RedactPath(dir), err)
	}
	base, err := resolve(root)
	if err != nil {
		return fmt.Errorf("refusing to remove %q: resolving project root: %w", RedactPath(dir), err)
	}

	if target == base {
		return fmt.Errorf("refusing to remove %q: it is the project root", RedactPath(dir))
	}
	if !isSubpath(target, base) {
		return fmt.Errorf("refusing to remove %q: outside project root", RedactPath(dir))
	}

	for _, k := range keep {
		if k == "" {
			continue
		}
		protected, err := resolve(k)
		if err != nil {
			return fmt.Errorf("refusing to remove %q: resolving %q: %w", RedactPath(dir), RedactPath(k), err)
		}
		if protected == target || isSubpath(protected, target) {
			return fmt.Errorf("refusing to remove %q: it contains %q", RedactPath(dir), RedactPath(k))
		}
	}
	return nil
}

// resolve returns the absolute, symlink-resolved form of path. Path
// components that do not exist yet are appended unresolved.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}
	return resolveExistingParent(abs)
}

// resolveExistingParent resolves symlinks on the deepest existing ancestor
// of dir and re-appends the missing tail.
func resolveExistingParent(dir string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve path: %s", RedactPath(dir))
	}

	resolvedParent, err := resolveExistingParent(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(dir)), nil
}

// isSubpath reports whether path is strictly below base.
func isSubpath(path, base string) bool {
	// "/tmp/foo" must not match "/tmp/foobar"
	prefix := base
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(path, prefix)
}
