package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// RetentionPolicy decides which sweeps to keep.
type RetentionPolicy interface {
	Apply(sweeps []Sweep) (keep []Sweep)
}

// CountPolicy keeps the N most recent sweeps.
type CountPolicy struct {
	MaxCount int
}

// Apply keeps the first MaxCount sweeps (assumed sorted newest-first).
func (p *CountPolicy) Apply(sweeps []Sweep) []Sweep {
	if len(sweeps) <= p.MaxCount {
		return sweeps
	}
	return sweeps[:p.MaxCount]
}

// AgePolicy keeps sweeps started within MaxAge.
type AgePolicy struct {
	MaxAge time.Duration
}

// Apply keeps sweeps whose StartedAt is within MaxAge of now.
func (p *AgePolicy) Apply(sweeps []Sweep) []Sweep {
	cutoff := time.Now().Add(-p.MaxAge)
	var keep []Sweep
	for _, s := range sweeps {
		if s.StartedAt.After(cutoff) {
			keep = append(keep, s)
		}
	}
	return keep
}

// CompositePolicy keeps a sweep if ANY sub-policy wants it (union).
type CompositePolicy struct {
	Policies []RetentionPolicy
}

// Apply returns the union of sweeps kept by any sub-policy, in input order.
func (p *CompositePolicy) Apply(sweeps []Sweep) []Sweep {
	kept := make(map[string]bool)
	for _, policy := range p.Policies {
		for _, s := range policy.Apply(sweeps) {
			kept[s.ID] = true
		}
	}

	var result []Sweep
	for _, s := range sweeps {
		if kept[s.ID] {
			result = append(result, s)
		}
	}
	return result
}

// Prune deletes every sweep the policy does not keep, together with its runs.
// It returns the IDs of the deleted sweeps.
func (l *Ledger) Prune(ctx context.Context, policy RetentionPolicy) ([]string, error) {
	sweeps, err := l.RecentSweeps(ctx, -1)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool)
	for _, s := range policy.Apply(sweeps) {
		keep[s.ID] = true
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var deleted []string
	for _, s := range sweeps {
		if keep[s.ID] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sweeps WHERE id = ?`, s.ID); err != nil {
			return nil, fmt.Errorf("failed to delete sweep %s: %w", s.ID, err)
		}
		deleted = append(deleted, s.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit prune: %w", err)
	}
	return deleted, nil
}

// ParseDuration parses duration strings like "30d", "2w", "720h".
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	// d (days) and w (weeks) are not understood by time.ParseDuration.
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}
	suffix := s[len(s)-1]
	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(num) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration suffix %q in %q", string(suffix), s)
	}
}
