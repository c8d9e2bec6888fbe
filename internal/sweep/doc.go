// Package sweep defines the benchmark parameter space: the six configuration
// axes, the combinations drawn from their cartesian product, and the artifact
// key that names every file a run produces.
//
// Enumeration order is fixed, outermost to innermost:
//
//	periodic → method → size → seeds → MC iterations → MC temperature
//
// Axis lists are taken as given. Duplicate axis values produce duplicate
// combinations, and therefore duplicate keys whose later runs overwrite the
// earlier artifacts.
package sweep
