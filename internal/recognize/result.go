package recognize

import (
	"errors"
	"time"

	"github.com/ironsheep/trailcam-ocr/internal/imaging"
	"github.com/ironsheep/trailcam-ocr/internal/timestamp"
	"github.com/ironsheep/trailcam-ocr/internal/vote"
)

// ErrDecode marks images that could not be read.
var ErrDecode = errors.New("unreadable image")

// Result is the outcome for one image.
type Result struct {
	// File is the image base name.
	File string `json:"file"`
	// Path is the path the image was read from, if any.
	Path string `json:"path,omitempty"`
	// Timestamp is nil when the image was not recognized.
	Timestamp *timestamp.Timestamp `json:"timestamp,omitempty"`
	// Raw is the representative OCR text, empty when unrecognized.
	Raw  string    `json:"raw_ocr"`
	Tier vote.Tier `json:"tier"`
	// Winner is "roi|upscale|binarization" of the representative candidate.
	Winner     string           `json:"winner,omitempty"`
	Band       imaging.Band     `json:"band"`
	Candidates []vote.Candidate `json:"candidates,omitempty"`
	Duration   time.Duration    `json:"duration_ns"`
	Err        error            `json:"-"`
}

// Recognized reports whether a timestamp was found.
func (r Result) Recognized() bool {
	return r.Timestamp != nil
}

// Canonical returns "YYYY-MM-DD HH:MM:SS", or "" when unrecognized.
func (r Result) Canonical() string {
	if r.Timestamp == nil {
		return ""
	}
	return r.Timestamp.Canonical()
}

// ErrorMessage returns the failure message, or "".
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// LogLines renders every candidate in the debug log format.
func (r Result) LogLines() []string {
	lines := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		lines[i] = c.LogLine()
	}
	return lines
}
