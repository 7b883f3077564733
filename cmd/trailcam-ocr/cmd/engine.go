package cmd

import (
	"path/filepath"

	"github.com/ironsheep/trailcam-ocr/internal/config"
	"github.com/ironsheep/trailcam-ocr/internal/metrics"
	"github.com/ironsheep/trailcam-ocr/internal/ocr"
	"github.com/ironsheep/trailcam-ocr/internal/recognize"
)

// newEngine wires an engine from the loaded configuration. imageDir is
// where the default debug folder lives when debug capture is on.
func (a *app) newEngine(rec ocr.Recognizer, imageDir string, m *metrics.Recorder) *recognize.Engine {
	opts := []recognize.Option{
		recognize.WithLogger(a.log),
		recognize.WithMetrics(m),
	}
	if a.cfg.Debug.Enabled {
		dir := a.cfg.Debug.Dir
		if dir == "" {
			dir = filepath.Join(imageDir, config.DebugDirName)
		}
		a.log.WithField("dir", dir).Info("saving debug artifacts")
		opts = append(opts, recognize.WithDebugSink(recognize.NewFileSink(dir)))
	}
	return recognize.New(rec, a.cfg.RecognizeOptions(), opts...)
}
