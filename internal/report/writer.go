package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// Format selects the report encoding.
type Format string

const (
	// FormatCSV writes a header row then one comma-separated row per run.
	FormatCSV Format = "csv"

	// FormatArrow writes Arrow IPC with the same schema: the file format
	// from WriteFile, the stream format from Write.
	FormatArrow Format = "arrow"
)

// Valid returns true if the format is a recognized value.
func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatArrow:
		return true
	}
	return false
}

// Write builds the table and encodes it to w. FormatArrow produces the
// Arrow IPC stream format, since w need not be seekable; use WriteFile for
// the random-access file format.
func (t *Table) Write(w io.Writer, format Format) error {
	if !format.Valid() {
		return fmt.Errorf("unknown report format %q", format)
	}

	mem := memory.DefaultAllocator
	rec, err := t.Record(mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	if format == FormatArrow {
		return writeStream(w, rec, mem)
	}
	return writeCSV(w, rec)
}

// WriteFile writes the report to path, replacing any previous report.
// The table is built before path is touched, and the new report is renamed
// into place only once fully written, so a failed aggregation leaves the
// previous report intact.
func (t *Table) WriteFile(path string, format Format) error {
	if !format.Valid() {
		return fmt.Errorf("unknown report format %q", format)
	}

	mem := memory.DefaultAllocator
	rec, err := t.Record(mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if format == FormatArrow {
		err = writeFile(f, rec, mem)
	} else {
		err = writeCSV(f, rec)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return fmt.Errorf("setting report permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, rec arrow.Record) error {
	cw := csv.NewWriter(w, rec.Schema(),
		csv.WithHeader(true),
		csv.WithNullWriter(""),
	)
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("writing csv report: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("flushing csv report: %w", err)
	}
	return nil
}

// writeFile encodes rec in the Arrow IPC file format, which needs a seekable writer.
func writeFile(w io.WriteSeeker, rec arrow.Record, mem memory.Allocator) error {
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("opening arrow report: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("writing arrow report: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("closing arrow report: %w", err)
	}
	return nil
}

// writeStream encodes rec in the Arrow IPC stream format.
func writeStream(w io.Writer, rec arrow.Record, mem memory.Allocator) error {
	sw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := sw.Write(rec); err != nil {
		sw.Close()
		return fmt.Errorf("writing arrow report: %w", err)
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("closing arrow report: %w", err)
	}
	return nil
}
