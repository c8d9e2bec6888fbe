// Package report joins per-run timing results into one wide comparison table.
//
// Each row is labeled by its artifact key. Scalar columns carry the first
// sample of the four phase timings; sequence metrics are spread across
// "Iteration i" and "MC iteration i" columns, as many as the longest series
// among all rows. Positions a row does not reach are null in the Arrow record
// and blank in the CSV rendering, never zero.
package report
