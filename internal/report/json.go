package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ironsheep/trailcam-ocr/internal/batch"
	"github.com/ironsheep/trailcam-ocr/internal/recognize"
)

// Entry is the JSON form of one result.
type Entry struct {
	File      string `json:"file"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Raw       string `json:"raw_ocr"`
	Tier      string `json:"tier"`
	Winner    string `json:"winner,omitempty"`
	Error     string `json:"error,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// Document is the JSON form of a batch run.
type Document struct {
	RunID      string    `json:"run_id"`
	Folder     string    `json:"folder,omitempty"`
	Started    time.Time `json:"started"`
	ElapsedMS  int64     `json:"elapsed_ms"`
	Total      int       `json:"total"`
	Recognized int       `json:"recognized"`
	Results    []Entry   `json:"results"`
}

// NewEntry converts a result.
func NewEntry(r recognize.Result) Entry {
	e := Entry{
		File:      r.File,
		Timestamp: r.Canonical(),
		Raw:       r.Raw,
		Tier:      string(r.Tier),
		Winner:    r.Winner,
		Error:     r.ErrorMessage(),
		ElapsedMS: r.Duration.Milliseconds(),
	}
	if r.Timestamp != nil {
		e.Date, e.Time = r.Timestamp.Date(), r.Timestamp.Clock()
	}
	return e
}

// NewDocument converts a batch report.
func NewDocument(rep *batch.Report) Document {
	doc := Document{
		RunID:      rep.RunID,
		Folder:     rep.Folder,
		Started:    rep.Started,
		ElapsedMS:  rep.Duration.Milliseconds(),
		Total:      rep.Total,
		Recognized: rep.Recognized,
		Results:    make([]Entry, len(rep.Results)),
	}
	for i, r := range rep.Results {
		doc.Results[i] = NewEntry(r)
	}
	return doc
}

// WriteJSON writes rep as an indented JSON document.
func WriteJSON(w io.Writer, rep *batch.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(rep)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteJSONFile writes rep to path, creating its directory.
func WriteJSONFile(path string, rep *batch.Report) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(w, rep) })
}
