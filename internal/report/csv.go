package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ironsheep/trailcam-ocr/internal/recognize"
)

// NotFound fills Date and Time cells that have no value.
const NotFound = "Not found"

// Column names.
const (
	ColumnFile      = "file"
	ColumnTimestamp = "timestamp"
	ColumnRaw       = "raw_ocr"
	ColumnDate      = "Date"
	ColumnTime      = "Time"
)

// CSVOptions controls the CSV layout.
type CSVOptions struct {
	// ExcelQuote writes the timestamp as ="YYYY-MM-DD HH:MM:SS".
	ExcelQuote bool
	// SplitDateTime adds Date and Time columns after timestamp.
	SplitDateTime bool
}

// DefaultCSVOptions matches the spreadsheet-safe layout.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{ExcelQuote: true}
}

// Header returns the column names for opts.
func (o CSVOptions) Header() []string {
	if o.SplitDateTime {
		return []string{ColumnFile, ColumnTimestamp, ColumnDate, ColumnTime, ColumnRaw}
	}
	return []string{ColumnFile, ColumnTimestamp, ColumnRaw}
}

// Row renders one result. Unrecognized images get an empty timestamp.
func (o CSVOptions) Row(r recognize.Result) []string {
	ts := r.Canonical()
	cell := ts
	if ts != "" && o.ExcelQuote {
		cell = ExcelText(ts)
	}
	if !o.SplitDateTime {
		return []string{r.File, cell, r.Raw}
	}
	date, clock := NotFound, NotFound
	if r.Timestamp != nil {
		date, clock = r.Timestamp.Date(), r.Timestamp.Clock()
	}
	return []string{r.File, cell, date, clock, r.Raw}
}

// ExcelText wraps s in a ="..." formula.
func ExcelText(s string) string {
	return `="` + s + `"`
}

// WriteCSV writes a header and one row per result, in order.
func WriteCSV(w io.Writer, results []recognize.Result, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(opts.Header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(opts.Row(r)); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.File, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes results to path, creating its directory.
func WriteCSVFile(path string, results []recognize.Result, opts CSVOptions) error {
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, results, opts) })
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return fn(f)
}
