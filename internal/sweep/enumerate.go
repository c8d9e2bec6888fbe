package sweep

import (
	"fmt"
	"iter"
)

// Axes holds the ordered value lists of the six sweep axes.
type Axes struct {
	Periodic      []string  `json:"periodic" yaml:"periodic"`
	Method        []string  `json:"method" yaml:"method"`
	Size          []int     `json:"size" yaml:"size"`
	Seeds         []int     `json:"seeds" yaml:"seeds"`
	MCIterations  []int     `json:"mc_iterations" yaml:"mc_iterations"`
	MCTemperature []float64 `json:"mc_kt" yaml:"mc_kt"`
}

// Count returns the number of combinations the axes produce.
func (a Axes) Count() int {
	return len(a.Periodic) * len(a.Method) * len(a.Size) *
		len(a.Seeds) * len(a.MCIterations) * len(a.MCTemperature)
}

// Validate checks that every axis is non-empty and every value is usable.
func (a Axes) Validate() error {
	lengths := []struct {
		name string
		n    int
	}{
		{"periodic", len(a.Periodic)},
		{"method", len(a.Method)},
		{"size", len(a.Size)},
		{"seeds", len(a.Seeds)},
		{"mc_iterations", len(a.MCIterations)},
		{"mc_kt", len(a.MCTemperature)},
	}
	for _, l := range lengths {
		if l.n == 0 {
			return fmt.Errorf("axis %s has no values", l.name)
		}
	}

	for c := range a.Combinations() {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid combination %s: %w", c.Key(), err)
		}
	}
	return nil
}

// Combinations yields the full cartesian product of the axes in enumeration
// order. The sequence has no side effects and may be ranged over repeatedly.
func (a Axes) Combinations() iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		for _, periodic := range a.Periodic {
			for _, method := range a.Method {
				for _, size := range a.Size {
					for _, seeds := range a.Seeds {
						for _, mc := range a.MCIterations {
							for _, kt := range a.MCTemperature {
								c := Combination{
									Periodic:         periodic,
									Method:           method,
									Size:             size,
									SeedCount:        seeds,
									MCIterationCount: mc,
									MCTemperature:    kt,
								}
								if !yield(c) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}
