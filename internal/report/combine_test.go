package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cameraSheet = "filename,Date,Time,species\n" +
	"RCNX0001.AVI,,,deer\n" +
	"RCNX0002.AVI,2024-08-01,Not found,fox\n" +
	"RCNX0003.AVI,2024-07-30,12:00:00,owl\n" +
	"notes.txt,,,\n"

const recognizedSheet = "file,timestamp,Date,Time,raw_ocr\n" +
	"RCNX0001.png,x,2024-08-01,06:31:27,x\n" +
	"RCNX0001_dup.png,x,1999-01-01,00:00:00,x\n" +
	"RCNX0002.png,x,2024-08-02,07:00:00,x\n" +
	"RCNX0003.png,x,2024-08-03,08:00:00,x\n"

func TestCombine(t *testing.T) {
	var out bytes.Buffer
	stats, err := Combine(strings.NewReader(cameraSheet), strings.NewReader(recognizedSheet), &out, DefaultCombineOptions())
	require.NoError(t, err)
	assert.Equal(t, CombineStats{Rows: 4, FilledDates: 1, FilledTimes: 2, MissingIDs: 1}, stats)

	rows := readBack(t, out.String())
	assert.Equal(t, []string{"filename", "Date", "Time", "species"}, rows[0])
	assert.Equal(t, []string{"RCNX0001.AVI", "2024-08-01", "06:31:27", "deer"}, rows[1])
	// present values are kept
	assert.Equal(t, []string{"RCNX0002.AVI", "2024-08-01", "07:00:00", "fox"}, rows[2])
	assert.Equal(t, []string{"RCNX0003.AVI", "2024-07-30", "12:00:00", "owl"}, rows[3])
	assert.Equal(t, []string{"notes.txt", "", "", ""}, rows[4])
}

func TestCombine_NotFoundInRecognizedSheetDoesNotFill(t *testing.T) {
	lf := "file,Date,Time\nRCNX0001.png,Not found,Not found\n"
	var out bytes.Buffer
	stats, err := Combine(strings.NewReader(cameraSheet), strings.NewReader(lf), &out, DefaultCombineOptions())
	require.NoError(t, err)
	assert.Zero(t, stats.FilledDates)
	assert.Zero(t, stats.FilledTimes)
}

func TestCombine_FirstColumnFallback(t *testing.T) {
	lf := "image,Date,Time\nRCNX0001.png,2024-08-01,06:31:27\n"
	var out bytes.Buffer
	stats, err := Combine(strings.NewReader(cameraSheet), strings.NewReader(lf), &out, DefaultCombineOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilledDates)
}

func TestCombine_Errors(t *testing.T) {
	var out bytes.Buffer
	opts := DefaultCombineOptions()

	_, err := Combine(strings.NewReader(cameraSheet), strings.NewReader("file,timestamp\n"), &out, opts)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Combine(strings.NewReader("name,Date,Time\n"), strings.NewReader(recognizedSheet), &out, opts)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Combine(strings.NewReader("filename,Date\n"), strings.NewReader(recognizedSheet), &out, opts)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Combine(strings.NewReader(cameraSheet), strings.NewReader(recognizedSheet), &out,
		CombineOptions{IDPattern: `RCNX\d{4}`})
	assert.ErrorContains(t, err, "capture group")

	_, err = Combine(strings.NewReader(cameraSheet), strings.NewReader(recognizedSheet), &out,
		CombineOptions{IDPattern: `(`})
	assert.ErrorContains(t, err, "invalid id pattern")
}

func TestCombineFiles(t *testing.T) {
	dir := t.TempDir()
	ko := filepath.Join(dir, "ko.csv")
	lf := filepath.Join(dir, "lf.csv")
	require.NoError(t, os.WriteFile(ko, []byte(cameraSheet), 0o644))
	require.NoError(t, os.WriteFile(lf, []byte(recognizedSheet), 0o644))

	out := filepath.Join(dir, "filled.csv")
	stats, err := CombineFiles(ko, lf, out, DefaultCombineOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Rows)
	_, err = os.Stat(out)
	assert.NoError(t, err)
}
