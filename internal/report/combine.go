package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// DefaultIDPattern extracts the camera clip id shared by the camera sheet and
// the recognized last-frame sheet.
const DefaultIDPattern = `(RCNX\d{4})`

// ErrMissingColumn is returned when a sheet lacks a required column.
var ErrMissingColumn = errors.New("required column missing")

// CombineOptions configures Combine.
type CombineOptions struct {
	// IDPattern must contain one capture group.
	IDPattern string
	// FileColumn names the file column of the camera sheet.
	FileColumn string
}

// DefaultCombineOptions returns the settings for Reconyx camera exports.
func DefaultCombineOptions() CombineOptions {
	return CombineOptions{IDPattern: DefaultIDPattern, FileColumn: ColumnFilename}
}

// CombineStats counts filled cells.
type CombineStats struct {
	Rows        int
	FilledDates int
	FilledTimes int
	MissingIDs  int
}

// Combine copies the camera sheet, filling its missing Date and Time cells
// (empty or "Not found") from the recognized sheet. Rows are matched by the
// id extracted from each sheet's file column; the first recognized row wins
// when an id repeats. Values already present are never overwritten.
func Combine(camera, recognized io.Reader, w io.Writer, opts CombineOptions) (CombineStats, error) {
	var stats CombineStats
	if opts.IDPattern == "" {
		opts.IDPattern = DefaultIDPattern
	}
	if opts.FileColumn == "" {
		opts.FileColumn = ColumnFilename
	}
	idRe, err := regexp.Compile(opts.IDPattern)
	if err != nil {
		return stats, fmt.Errorf("invalid id pattern: %w", err)
	}
	if idRe.NumSubexp() < 1 {
		return stats, fmt.Errorf("invalid id pattern %q: needs a capture group", opts.IDPattern)
	}

	lf, err := readAll(recognized)
	if err != nil {
		return stats, err
	}
	fill, err := lookupTable(lf, idRe)
	if err != nil {
		return stats, err
	}

	ko, err := readAll(camera)
	if err != nil {
		return stats, err
	}
	if len(ko) == 0 {
		return stats, fmt.Errorf("%w: %s", ErrMissingColumn, opts.FileColumn)
	}
	fileCol := indexOf(ko[0], opts.FileColumn)
	dateCol, timeCol := indexOf(ko[0], ColumnDate), indexOf(ko[0], ColumnTime)
	switch {
	case fileCol < 0:
		return stats, fmt.Errorf("%w: %s", ErrMissingColumn, opts.FileColumn)
	case dateCol < 0 || timeCol < 0:
		return stats, fmt.Errorf("%w: camera sheet needs Date and Time", ErrMissingColumn)
	}

	out := csv.NewWriter(w)
	if err := out.Write(ko[0]); err != nil {
		return stats, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range ko[1:] {
		stats.Rows++
		for len(rec) < len(ko[0]) {
			rec = append(rec, "")
		}
		id := extractID(idRe, rec[fileCol])
		if id == "" {
			stats.MissingIDs++
		}
		if src, ok := fill[id]; ok && id != "" {
			if missing(rec[dateCol]) && src[0] != "" {
				rec[dateCol] = src[0]
				stats.FilledDates++
			}
			if missing(rec[timeCol]) && src[1] != "" {
				rec[timeCol] = src[1]
				stats.FilledTimes++
			}
		}
		if err := out.Write(rec); err != nil {
			return stats, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return stats, fmt.Errorf("failed to flush csv: %w", err)
	}
	return stats, nil
}

// CombineFiles runs Combine over files.
func CombineFiles(cameraPath, recognizedPath, output string, opts CombineOptions) (CombineStats, error) {
	ko, err := os.Open(cameraPath)
	if err != nil {
		return CombineStats{}, fmt.Errorf("failed to open camera csv: %w", err)
	}
	defer ko.Close()
	lf, err := os.Open(recognizedPath)
	if err != nil {
		return CombineStats{}, fmt.Errorf("failed to open recognized csv: %w", err)
	}
	defer lf.Close()

	var stats CombineStats
	err = writeFile(output, func(w io.Writer) error {
		var err error
		stats, err = Combine(ko, lf, w, opts)
		return err
	})
	return stats, err
}

// lookupTable maps id to {Date, Time}. The file column is "file" or, failing
// that, the first column. Rows whose Date/Time are missing contribute "".
func lookupTable(records [][]string, idRe *regexp.Regexp) (map[string][2]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: recognized sheet is empty", ErrMissingColumn)
	}
	header := records[0]
	fileCol := indexOf(header, ColumnFile)
	if fileCol < 0 {
		fileCol = 0
	}
	dateCol, timeCol := indexOf(header, ColumnDate), indexOf(header, ColumnTime)
	if dateCol < 0 || timeCol < 0 {
		return nil, fmt.Errorf("%w: recognized sheet needs Date and Time (run split first)", ErrMissingColumn)
	}

	table := make(map[string][2]string)
	for _, rec := range records[1:] {
		if fileCol >= len(rec) {
			continue
		}
		id := extractID(idRe, rec[fileCol])
		if id == "" {
			continue
		}
		if _, seen := table[id]; seen {
			continue
		}
		var v [2]string
		if dateCol < len(rec) && !missing(rec[dateCol]) {
			v[0] = rec[dateCol]
		}
		if timeCol < len(rec) && !missing(rec[timeCol]) {
			v[1] = rec[timeCol]
		}
		table[id] = v
	}
	return table, nil
}

func extractID(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func missing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, NotFound)
}
