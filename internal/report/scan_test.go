package report

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainJPEG returns a small JPEG without any APP segment.
func plainJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil))
	return buf.Bytes()
}

// exifJPEG returns a JPEG whose APP1 segment holds IFD0 -> Exif IFD ->
// DateTimeOriginal, the way camera stills store it.
func exifJPEG(t *testing.T, dateTimeOriginal string) []byte {
	t.Helper()
	var tiff bytes.Buffer
	w := func(v any) { require.NoError(t, binary.Write(&tiff, binary.LittleEndian, v)) }
	val := dateTimeOriginal + "\x00"

	tiff.WriteString("II")
	w(uint16(42))
	w(uint32(8))
	// IFD0 at 8: ExifIFDPointer -> 26
	w(uint16(1))
	w([]uint16{0x8769, 4})
	w([]uint32{1, 26, 0})
	// Exif IFD at 26: DateTimeOriginal (ASCII) -> 44
	w(uint16(1))
	w([]uint16{0x9003, 2})
	w([]uint32{uint32(len(val)), 44, 0})
	tiff.WriteString(val)

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	n := len(payload) + 2
	jpg := plainJPEG(t)
	out := append([]byte{}, jpg[:2]...)
	out = append(out, 0xFF, 0xE1, byte(n>>8), byte(n))
	out = append(out, payload...)
	return append(out, jpg[2:]...)
}

func writeScanFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestExifDateTimeOriginal(t *testing.T) {
	dir := t.TempDir()

	v, err := ExifDateTimeOriginal(writeScanFile(t, dir, "a.jpg", exifJPEG(t, "2024:08:01 06:31:27")))
	require.NoError(t, err)
	assert.Equal(t, "2024:08:01 06:31:27", v)

	_, err = ExifDateTimeOriginal(writeScanFile(t, dir, "b.jpg", plainJPEG(t)))
	assert.ErrorIs(t, err, ErrNoDateTime)

	_, err = ExifDateTimeOriginal(writeScanFile(t, dir, "c.jpg", []byte("not a jpeg")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDateTime)

	_, err = ExifDateTimeOriginal(filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}

func TestScanFolder(t *testing.T) {
	dir := t.TempDir()
	writeScanFile(t, dir, "RCNX0001.JPG", exifJPEG(t, "2024:08:01 06:31:27"))
	writeScanFile(t, dir, "RCNX0002.jpeg", plainJPEG(t))
	clip := writeScanFile(t, dir, "RCNX0003.AVI", []byte("RIFF"))
	writeScanFile(t, dir, "broken.jpg", []byte("not a jpeg"))
	writeScanFile(t, dir, "notes.txt", []byte("ignored"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.jpg"), 0o755))
	writeScanFile(t, filepath.Join(dir, "nested.jpg"), "RCNX0009.JPG", exifJPEG(t, "2024:09:09 09:09:09"))

	mtime := time.Date(2024, 8, 1, 6, 40, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(clip, mtime, mtime))

	rows, err := ScanFolder(dir, nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, ScanRow{"RCNX0001.JPG", TypeImage, "2024:08:01 06:31:27", ""}, rows[0])
	assert.Equal(t, ScanRow{"RCNX0002.jpeg", TypeImage, NotFound, ""}, rows[1])
	assert.Equal(t, ScanRow{"RCNX0003.AVI", TypeVideo, "", "2024-08-01 06:40:00"}, rows[2])
	assert.Equal(t, "broken.jpg", rows[3].Filename)
	assert.True(t, strings.HasPrefix(rows[3].DateTimeOriginal, "Error: "), rows[3].DateTimeOriginal)
	assert.True(t, rows[3].Failed())
	assert.False(t, rows[0].Failed())
}

func TestScanFolder_ReaderOutcomes(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		writeScanFile(t, dir, n, nil)
	}
	read := func(path string) (string, error) {
		switch filepath.Base(path) {
		case "a.jpg":
			return "2025:01:02 03:04:05", nil
		case "b.jpg":
			return "", ErrNoDateTime
		case "c.jpg":
			return "", errors.New("truncated APP1")
		}
		return "", nil
	}

	rows, err := ScanFolder(dir, read)
	require.NoError(t, err)
	var got []string
	for _, r := range rows {
		got = append(got, r.DateTimeOriginal)
	}
	assert.Equal(t, []string{"2025:01:02 03:04:05", NotFound, "Error: truncated APP1", NotFound}, got)
}

func TestScanFolder_MissingFolder(t *testing.T) {
	_, err := ScanFolder(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestScanFolderFile(t *testing.T) {
	dir := t.TempDir()
	writeScanFile(t, dir, "RCNX0001.JPG", exifJPEG(t, "2024:08:01 06:31:27"))
	out := filepath.Join(dir, "out", "date_time_original.csv")

	rows, err := ScanFolderFile(dir, out, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	got := readBack(t, string(data))
	assert.Equal(t, [][]string{
		{"filename", "type", "DateTimeOriginal", "LastModified"},
		{"RCNX0001.JPG", "image", "2024:08:01 06:31:27", ""},
	}, got)
}

func TestScanFolderFile_EmptyFolderWritesHeader(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "scan.csv")
	rows, err := ScanFolderFile(dir, out, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "filename,type,DateTimeOriginal,LastModified\n", string(data))
}

func TestScanFolderFile_NotAFolder(t *testing.T) {
	dir := t.TempDir()
	file := writeScanFile(t, dir, "file.txt", []byte("x"))
	_, err := ScanFolderFile(file, filepath.Join(dir, "out.csv"), nil)
	assert.ErrorContains(t, err, "folder does not exist")
}

func TestScanSheetFeedsSplit(t *testing.T) {
	var sheet bytes.Buffer
	require.NoError(t, WriteScanCSV(&sheet, []ScanRow{
		{Filename: "RCNX0001.JPG", Type: TypeImage, DateTimeOriginal: "2024:08:01 06:31:27"},
		{Filename: "RCNX0002.AVI", Type: TypeVideo, LastModified: "2024-08-01 06:40:00"},
	}))

	var out bytes.Buffer
	stats, err := SplitCSV(&sheet, &out, ColumnDateTimeOriginal)
	require.NoError(t, err)
	assert.Equal(t, SplitStats{Rows: 2, Parsed: 1}, stats)
	rows := readBack(t, out.String())
	assert.Equal(t, []string{"RCNX0001.JPG", "image", "2024:08:01 06:31:27", "", "2024-08-01", "06:31:27"}, rows[1])
	assert.Equal(t, []string{"RCNX0002.AVI", "video", "", "2024-08-01 06:40:00", NotFound, NotFound}, rows[2])
}
