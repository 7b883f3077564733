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

// ErrNoTimestampColumn is returned when the input lacks the column to split.
var ErrNoTimestampColumn = errors.New("timestamp column not found")

// ColumnDateTimeOriginal is the timestamp column of camera EXIF exports.
const ColumnDateTimeOriginal = "DateTimeOriginal"

// cellRe accepts bare, apostrophe-prefixed and ="..." timestamp cells. The
// date may be separated by '-', ':' (EXIF) or '/'.
var cellRe = regexp.MustCompile(`^(?:'=?"?|=?"?)?(\d{4})[-:/](\d{2})[-:/](\d{2})\s+(\d{2}):(\d{2}):(\d{2})"?$`)

// SplitCell extracts Date and Time from a timestamp cell. Cells that do not
// hold a timestamp yield NotFound for both.
func SplitCell(value string) (date, clock string, ok bool) {
	m := cellRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return NotFound, NotFound, false
	}
	return m[1] + "-" + m[2] + "-" + m[3], m[4] + ":" + m[5] + ":" + m[6], true
}

// SplitStats counts the rows processed by SplitCSV.
type SplitStats struct {
	Rows   int
	Parsed int
}

// SplitCSV copies a sheet adding Date and Time columns split from column
// ("timestamp" when empty). Every input column is kept and existing Date and
// Time columns are replaced. For a timestamp column file, timestamp, Date
// and Time lead, followed by the rest in their original order; any other
// column keeps the input order and gets Date and Time appended.
func SplitCSV(r io.Reader, w io.Writer, column string) (SplitStats, error) {
	if column == "" {
		column = ColumnTimestamp
	}
	var stats SplitStats
	records, err := readAll(r)
	if err != nil {
		return stats, err
	}
	if len(records) == 0 {
		return stats, fmt.Errorf("%w: %q", ErrNoTimestampColumn, column)
	}
	header := records[0]
	tsCol := indexOf(header, column)
	if tsCol < 0 {
		return stats, fmt.Errorf("%w: %q", ErrNoTimestampColumn, column)
	}

	// lead and rest are input column indexes; -1 marks Date, -2 Time.
	var lead, rest []int
	if column == ColumnTimestamp {
		if fileCol := indexOf(header, ColumnFile); fileCol >= 0 {
			lead = append(lead, fileCol)
		}
		lead = append(lead, tsCol, -1, -2)
	}
	for i, name := range header {
		switch {
		case name == ColumnDate, name == ColumnTime:
		case contains(lead, i):
		default:
			rest = append(rest, i)
		}
	}
	order := append(lead, rest...)
	if column != ColumnTimestamp {
		order = append(order, -1, -2)
	}

	out := csv.NewWriter(w)
	head := make([]string, len(order))
	for j, i := range order {
		head[j] = columnName(header, i)
	}
	if err := out.Write(head); err != nil {
		return stats, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range records[1:] {
		stats.Rows++
		cell := func(i int) string {
			if i < len(rec) {
				return rec[i]
			}
			return ""
		}
		date, clock, ok := SplitCell(cell(tsCol))
		if ok {
			stats.Parsed++
		}
		row := make([]string, len(order))
		for j, i := range order {
			switch i {
			case -1:
				row[j] = date
			case -2:
				row[j] = clock
			default:
				row[j] = cell(i)
			}
		}
		if err := out.Write(row); err != nil {
			return stats, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return stats, fmt.Errorf("failed to flush csv: %w", err)
	}
	return stats, nil
}

// SplitCSVFile runs SplitCSV from one file into another.
func SplitCSVFile(input, output, column string) (SplitStats, error) {
	in, err := os.Open(input)
	if err != nil {
		return SplitStats{}, fmt.Errorf("failed to open input csv: %w", err)
	}
	defer in.Close()

	var stats SplitStats
	err = writeFile(output, func(w io.Writer) error {
		var err error
		stats, err = SplitCSV(in, w, column)
		return err
	})
	return stats, err
}

func readAll(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) > 0 {
		for i, h := range records[0] {
			records[0][i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		}
	}
	return records, nil
}

func columnName(header []string, i int) string {
	switch i {
	case -1:
		return ColumnDate
	case -2:
		return ColumnTime
	}
	return header[i]
}

func contains(idx []int, i int) bool {
	for _, v := range idx {
		if v == i {
			return true
		}
	}
	return false
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
