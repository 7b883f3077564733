package vote

import (
	"fmt"
	"image"

	"github.com/ironsheep/trailcam-ocr/internal/timestamp"
)

// Candidate is one OCR reading of a (ROI, variant) pair.
type Candidate struct {
	ROI       string              `json:"roi"`
	Variant   string              `json:"variant"`
	Raw       string              `json:"raw"`
	Parsed    bool                `json:"parsed"`
	Timestamp timestamp.Timestamp `json:"timestamp"`
	Canonical string              `json:"canonical,omitempty"`
	Weight    float64             `json:"weight"`
	Strategy  string              `json:"strategy,omitempty"`

	// Image is the processed variant fed to OCR, kept for debug capture.
	Image image.Image `json:"-"`
}

// Tag returns "roi|upscale|binarization".
func (c Candidate) Tag() string {
	return c.ROI + "|" + c.Variant
}

// LogLine renders the candidate in the debug log format.
func (c Candidate) LogLine() string {
	if !c.Parsed {
		return fmt.Sprintf("[%s] .. :: %s", c.Tag(), c.Raw)
	}
	return fmt.Sprintf("[%s] OK :: %s -> %s (w=%+.2f)", c.Tag(), c.Raw, c.Canonical, c.Weight)
}
