package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/trailcam-ocr/internal/batch"
)

var (
	// ErrUnsupported is returned when the binary was built without video
	// decoding.
	ErrUnsupported = errors.New("video decoding not available (build with -tags gocv)")
	// ErrNoFrame is returned when a clip opens but yields no frame.
	ErrNoFrame = errors.New("no frame could be read")
)

// DefaultOutDirName is the folder, inside the clip folder, frames go to.
const DefaultOutDirName = "AVI_last_frames"

// DefaultExtensions are the clip types looked for.
var DefaultExtensions = []string{".avi"}

// FrameReader returns one frame of the clip at path.
type FrameReader func(path string) (image.Image, error)

// Summary reports one extraction run.
type Summary struct {
	OutDir string
	Total  int
	Saved  []string
	Failed map[string]error
}

// Extractor saves the last frame of every clip in a folder.
type Extractor struct {
	read FrameReader
	exts []string
	log  logrus.FieldLogger
}

// NewExtractor returns an Extractor using read, ReadLastFrame when nil.
func NewExtractor(read FrameReader, log logrus.FieldLogger) *Extractor {
	if read == nil {
		read = ReadLastFrame
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Extractor{read: read, exts: DefaultExtensions, log: log}
}

// LastFrameName is the file name the frame of clip is saved as.
func LastFrameName(clip string) string {
	base := filepath.Base(clip)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_lastframe.png"
}

// ExtractLastFrames writes <clip>_lastframe.png for each clip directly in
// folder, in name order, to outDir (folder/AVI_last_frames when empty). A
// clip that cannot be read is recorded in Summary.Failed and does not stop
// the run; cancellation does. An empty folder returns batch.ErrNoImages.
func (e *Extractor) ExtractLastFrames(ctx context.Context, folder, outDir string) (*Summary, error) {
	clips, err := batch.ListImages(folder, e.exts)
	if err != nil {
		return nil, err
	}
	if outDir == "" {
		outDir = filepath.Join(folder, DefaultOutDirName)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}

	s := &Summary{OutDir: outDir, Total: len(clips), Failed: make(map[string]error)}
	e.log.WithField("clips", len(clips)).Info("extracting last frames")
	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		log := e.log.WithField("clip", filepath.Base(clip))
		out := filepath.Join(outDir, LastFrameName(clip))
		if err := e.save(clip, out); err != nil {
			log.WithError(err).Warn("failed to extract last frame")
			s.Failed[clip] = err
			continue
		}
		log.WithField("frame", out).Debug("saved last frame")
		s.Saved = append(s.Saved, out)
	}
	return s, nil
}

func (e *Extractor) save(clip, out string) error {
	frame, err := e.read(clip)
	if err != nil {
		return err
	}
	if frame == nil || frame.Bounds().Empty() {
		return ErrNoFrame
	}
	if err := imaging.Save(frame, out); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
