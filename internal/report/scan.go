package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // DecodeConfig of camera stills
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoDateTime is returned by a DateTimeReader when the image carries no
// DateTimeOriginal tag.
var ErrNoDateTime = errors.New("DateTimeOriginal not present")

// Scan sheet columns and file types.
const (
	ColumnFilename     = "filename"
	ColumnType         = "type"
	ColumnLastModified = "LastModified"

	TypeImage = "image"
	TypeVideo = "video"
)

// ScanHeader is the header of a folder scan sheet.
var ScanHeader = []string{ColumnFilename, ColumnType, ColumnDateTimeOriginal, ColumnLastModified}

// lastModifiedLayout is local time, unlike the EXIF "YYYY:MM:DD" form which
// is kept as the camera wrote it.
const lastModifiedLayout = "2006-01-02 15:04:05"

// ScanRow is one file of a camera folder. Images carry DateTimeOriginal and
// videos LastModified; the other cell is empty. A cell that could not be
// read holds "Not found" or "Error: <reason>".
type ScanRow struct {
	Filename         string
	Type             string
	DateTimeOriginal string
	LastModified     string
}

// Record renders the row in ScanHeader order.
func (r ScanRow) Record() []string {
	return []string{r.Filename, r.Type, r.DateTimeOriginal, r.LastModified}
}

// Failed reports whether the row's timestamp cell is an error.
func (r ScanRow) Failed() bool {
	return strings.HasPrefix(r.DateTimeOriginal, "Error:") || strings.HasPrefix(r.LastModified, "Error:")
}

// DateTimeReader returns the DateTimeOriginal of a still image.
type DateTimeReader func(path string) (string, error)

// ExifDateTimeOriginal reads the EXIF DateTimeOriginal tag of a JPEG. A
// readable JPEG without a usable EXIF block yields ErrNoDateTime.
func ExifDateTimeOriginal(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return "", fmt.Errorf("cannot identify image file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return "", ErrNoDateTime
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return "", ErrNoDateTime
		}
		return "", err
	}
	v, err := tag.StringVal()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(v, "\x00 "), nil
}

// ScanFolder lists the .jpg/.jpeg and .avi files directly inside dir in
// name order. Other files and subfolders are ignored. A nil read uses
// ExifDateTimeOriginal.
func ScanFolder(dir string, read DateTimeReader) ([]ScanRow, error) {
	if read == nil {
		read = ExifDateTimeOriginal
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	rows := make([]ScanRow, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg":
			rows = append(rows, ScanRow{Filename: name, Type: TypeImage, DateTimeOriginal: dateTimeCell(read, path)})
		case ".avi":
			rows = append(rows, ScanRow{Filename: name, Type: TypeVideo, LastModified: lastModifiedCell(e)})
		}
	}
	return rows, nil
}

func dateTimeCell(read DateTimeReader, path string) string {
	v, err := read(path)
	switch {
	case errors.Is(err, ErrNoDateTime):
		return NotFound
	case err != nil:
		return "Error: " + err.Error()
	case v == "":
		return NotFound
	}
	return v
}

func lastModifiedCell(e os.DirEntry) string {
	info, err := e.Info()
	if err != nil {
		return "Error: " + err.Error()
	}
	return info.ModTime().Local().Format(lastModifiedLayout)
}

// WriteScanCSV writes ScanHeader and one record per row. The header is
// written even when rows is empty.
func WriteScanCSV(w io.Writer, rows []ScanRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScanHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Filename, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// ScanFolderFile scans dir and writes the sheet to output.
func ScanFolderFile(dir, output string, read DateTimeReader) ([]ScanRow, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folder does not exist: %s", dir)
	}
	rows, err := ScanFolder(dir, read)
	if err != nil {
		return nil, err
	}
	return rows, writeFile(output, func(w io.Writer) error { return WriteScanCSV(w, rows) })
}
