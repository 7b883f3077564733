package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/trailcam-ocr/internal/recognize"
	"github.com/ironsheep/trailcam-ocr/internal/timestamp"
	"github.com/ironsheep/trailcam-ocr/internal/vote"
)

func result(file, raw string, ts *timestamp.Timestamp) recognize.Result {
	r := recognize.Result{File: file, Raw: raw, Timestamp: ts, Tier: vote.TierNone}
	if ts != nil {
		r.Tier = vote.TierElite
		r.Winner = "left70|cubic|morph_inv"
	}
	return r
}

func sample() []recognize.Result {
	ts := timestamp.Timestamp{Year: 2024, Month: 8, Day: 1, Hour: 6, Minute: 31, Second: 27}
	return []recognize.Result{
		result("RCNX0001.png", "2024-08-01 06:31:27", &ts),
		result("RCNX0002.png", "", nil),
	}
}

func readBack(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV_ExcelQuoted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(), DefaultCSVOptions()))

	assert.Equal(t,
		"file,timestamp,raw_ocr\n"+
			"RCNX0001.png,\"=\"\"2024-08-01 06:31:27\"\"\",2024-08-01 06:31:27\n"+
			"RCNX0002.png,,\n",
		buf.String())

	rows := readBack(t, buf.String())
	assert.Equal(t, `="2024-08-01 06:31:27"`, rows[1][1])
}

func TestWriteCSV_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(), CSVOptions{}))
	rows := readBack(t, buf.String())
	assert.Equal(t, []string{"RCNX0001.png", "2024-08-01 06:31:27", "2024-08-01 06:31:27"}, rows[1])
	assert.Equal(t, []string{"RCNX0002.png", "", ""}, rows[2])
}

func TestWriteCSV_Split(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(), CSVOptions{ExcelQuote: true, SplitDateTime: true}))
	rows := readBack(t, buf.String())
	assert.Equal(t, []string{"file", "timestamp", "Date", "Time", "raw_ocr"}, rows[0])
	assert.Equal(t, []string{"RCNX0001.png", `="2024-08-01 06:31:27"`, "2024-08-01", "06:31:27", "2024-08-01 06:31:27"}, rows[1])
	assert.Equal(t, []string{"RCNX0002.png", "", NotFound, NotFound, ""}, rows[2])
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, DefaultCSVOptions()))
	assert.Equal(t, "file,timestamp,raw_ocr\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriteError(t *testing.T) {
	err := WriteCSV(failingWriter{}, sample(), DefaultCSVOptions())
	assert.Error(t, err)
}

func TestWriteCSVFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "timestamps.csv")
	require.NoError(t, WriteCSVFile(path, sample(), DefaultCSVOptions()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "file,timestamp,raw_ocr\n"))
}
