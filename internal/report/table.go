package report

import (
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/casweep/internal/constants"
	"github.com/nvandessel/casweep/internal/timing"
)

// ErrMissingMetric is returned when a result lacks a metric the table needs.
var ErrMissingMetric = errors.New("missing required metric")

// Column headers of the fixed part of the table.
const (
	ColumnOptions             = "Options"
	ColumnReadConfig          = "Read config"
	ColumnStructureGeneration = "Generating structure"
	ColumnMonteCarlo          = "MonteCarlo"
	ColumnWriteToFile         = "Save to file"
)

// scalarColumns pairs each scalar header with the metric it surfaces.
var scalarColumns = []struct {
	header string
	metric string
}{
	{ColumnReadConfig, constants.MetricReadConfig},
	{ColumnStructureGeneration, constants.MetricStructureGeneration},
	{ColumnMonteCarlo, constants.MetricMonteCarlo},
	{ColumnWriteToFile, constants.MetricWriteToFile},
}

// IterationColumn returns the header of the i-th structure iteration column.
func IterationColumn(i int) string { return fmt.Sprintf("Iteration %d", i) }

// MCIterationColumn returns the header of the i-th Monte Carlo iteration column.
func MCIterationColumn(i int) string { return fmt.Sprintf("MC iteration %d", i) }

// Table accumulates parsed results keyed by artifact key.
// Rows keep the order in which keys were first added; adding a key again
// replaces its result in place. Table is not safe for concurrent use.
type Table struct {
	keys    []string
	results map[string]timing.Result
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{results: make(map[string]timing.Result)}
}

// Add records the result for key.
func (t *Table) Add(key string, r timing.Result) {
	if _, ok := t.results[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.results[key] = r
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.keys) }

// Keys returns the row labels in row order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Widths returns the longest Iterations and MCiterations series across all rows.
// Every row must report both metrics, even if empty.
func (t *Table) Widths() (maxIter, maxMC int, err error) {
	for _, key := range t.keys {
		r := t.results[key]
		iters, ok := r.Series(constants.MetricIterations)
		if !ok {
			return 0, 0, missing(key, constants.MetricIterations)
		}
		mc, ok := r.Series(constants.MetricMCIterations)
		if !ok {
			return 0, 0, missing(key, constants.MetricMCIterations)
		}
		maxIter = max(maxIter, len(iters))
		maxMC = max(maxMC, len(mc))
	}
	return maxIter, maxMC, nil
}

// Header returns the column names for the given series widths.
func Header(maxIter, maxMC int) []string {
	cols := []string{ColumnOptions}
	for _, sc := range scalarColumns {
		cols = append(cols, sc.header)
	}
	for i := range maxIter {
		cols = append(cols, IterationColumn(i))
	}
	for i := range maxMC {
		cols = append(cols, MCIterationColumn(i))
	}
	return cols
}

// Schema returns the Arrow schema for the given series widths. The label is
// a string column; every timing column is a nullable int64.
func Schema(maxIter, maxMC int) *arrow.Schema {
	names := Header(maxIter, maxMC)
	fields := make([]arrow.Field, len(names))
	fields[0] = arrow.Field{Name: names[0], Type: arrow.BinaryTypes.String}
	for i := 1; i < len(names); i++ {
		fields[i] = arrow.Field{Name: names[i], Type: arrow.PrimitiveTypes.Int64, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// Record builds the padded table as a single Arrow record.
// The caller must Release the returned record.
func (t *Table) Record(mem memory.Allocator) (arrow.Record, error) {
	maxIter, maxMC, err := t.Widths()
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, Schema(maxIter, maxMC))
	defer b.Release()

	iterBase := 1 + len(scalarColumns)
	mcBase := iterBase + maxIter

	for _, key := range t.keys {
		r := t.results[key]

		b.Field(0).(*array.StringBuilder).Append(key)

		for i, sc := range scalarColumns {
			v, ok := r.Scalar(sc.metric)
			if !ok {
				return nil, missing(key, sc.metric)
			}
			b.Field(1 + i).(*array.Int64Builder).Append(v)
		}

		iters, _ := r.Series(constants.MetricIterations)
		appendPadded(b, iterBase, maxIter, iters)

		mc, _ := r.Series(constants.MetricMCIterations)
		appendPadded(b, mcBase, maxMC, mc)
	}

	return b.NewRecord(), nil
}

// appendPadded left-aligns samples into width columns starting at base,
// appending nulls past the end of the series.
func appendPadded(b *array.RecordBuilder, base, width int, samples []int64) {
	for i := range width {
		fb := b.Field(base + i).(*array.Int64Builder)
		if i < len(samples) {
			fb.Append(samples[i])
		} else {
			fb.AppendNull()
		}
	}
}

func missing(key, metric string) error {
	return fmt.Errorf("run %s: %w %q", key, ErrMissingMetric, metric)
}
