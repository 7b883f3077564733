package recognize

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/trailcam-ocr/internal/vote"
)

// DebugSink receives intermediate artifacts for one image, identified by
// its base name without extension.
type DebugSink interface {
	Band(base string, band image.Image) error
	Overlay(base string, frame image.Image) error
	Candidates(base string, lines []string) error
	Winner(base string, c vote.Candidate) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Band(string, image.Image) error      { return nil }
func (NopSink) Overlay(string, image.Image) error   { return nil }
func (NopSink) Candidates(string, []string) error   { return nil }
func (NopSink) Winner(string, vote.Candidate) error { return nil }

// FileSink writes artifacts into Dir, creating it on first use:
//
//	{base}_band.png
//	{base}_overlay.png
//	{base}_candidates.txt
//	{base}_best_{roi}_{upscale}-{binarization}.png
type FileSink struct {
	Dir string
}

// NewFileSink returns a sink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) path(name string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create debug dir: %w", err)
	}
	return filepath.Join(s.Dir, name), nil
}

func (s *FileSink) save(name string, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, p); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

func (s *FileSink) Band(base string, band image.Image) error {
	return s.save(base+"_band.png", band)
}

func (s *FileSink) Overlay(base string, frame image.Image) error {
	return s.save(base+"_overlay.png", frame)
}

func (s *FileSink) Candidates(base string, lines []string) error {
	p, err := s.path(base + "_candidates.txt")
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write candidates: %w", err)
	}
	return nil
}

func (s *FileSink) Winner(base string, c vote.Candidate) error {
	return s.save(WinnerFileName(base, c), c.Image)
}

// WinnerFileName is the artifact name for the winning variant image. The
// "|" of the variant tag is replaced so the name is valid on every platform.
func WinnerFileName(base string, c vote.Candidate) string {
	return fmt.Sprintf("%s_best_%s_%s.png", base, c.ROI, strings.ReplaceAll(c.Variant, "|", "-"))
}
