package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/trailcam-ocr/internal/config"
	"github.com/ironsheep/trailcam-ocr/internal/ocr"
	"github.com/ironsheep/trailcam-ocr/internal/report"
	"github.com/ironsheep/trailcam-ocr/internal/video"
)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RecognizerFactory opens an OCR engine. The returned close function is
// called when the command finishes.
type RecognizerFactory func(cfg ocr.EngineConfig) (ocr.Recognizer, func() error, error)

func tesseractFactory(cfg ocr.EngineConfig) (ocr.Recognizer, func() error, error) {
	t, err := ocr.NewTesseract(cfg)
	if err != nil {
		return nil, nil, err
	}
	return t, t.Close, nil
}

// app is the state shared by the commands of one invocation.
type app struct {
	build      BuildInfo
	recognizer RecognizerFactory
	frames     video.FrameReader
	exif       report.DateTimeReader

	cfgFile string
	envFile string
	loader  *config.Loader
	cfg     *config.Config
	log     *logrus.Logger
}

// Option customizes the command tree.
type Option func(*app)

// WithBuildInfo sets the version reported by the binary.
func WithBuildInfo(b BuildInfo) Option {
	return func(a *app) { a.build = b }
}

// WithRecognizerFactory replaces the Tesseract engine.
func WithRecognizerFactory(f RecognizerFactory) Option {
	return func(a *app) { a.recognizer = f }
}

// WithFrameReader replaces the video decoder used by frames.
func WithFrameReader(r video.FrameReader) Option {
	return func(a *app) { a.frames = r }
}

// WithDateTimeReader replaces the EXIF reader used by scan.
func WithDateTimeReader(r report.DateTimeReader) Option {
	return func(a *app) { a.exif = r }
}

// flagKeys binds command-line flags to configuration keys. Flags that a
// command does not define are skipped.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"elite-margin": "selection.elite_margin",
	"save-debug":   "debug.enabled",
	"debug-dir":    "debug.dir",
	"split":        "batch.split_date_time",
	"excel-quote":  "batch.excel_quote",
	"workers":      "batch.workers",
	"metrics-file": "metrics.file",
	"lang":         "tesseract.language",
	"tessdata":     "tesseract.tessdata_prefix",
}

// NewRootCommand builds the trailcam-ocr command tree.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{
		build:      BuildInfo{Version: "dev", BuildTime: "unknown", GitCommit: "unknown"},
		recognizer: tesseractFactory,
		frames:     video.ReadLastFrame,
		exif:       report.ExifDateTimeOriginal,
		loader:     config.NewLoader(),
		log:        logrus.New(),
	}
	for _, o := range options {
		o(a)
	}

	root := &cobra.Command{
		Use:   "trailcam-ocr",
		Short: "Read burned-in timestamps from trail-camera frames",
		Long: `trailcam-ocr reads the date and time that trail cameras print into a dark
banner at the top of each frame.

Each frame is cropped to the banner, rendered several ways, and read by
Tesseract; the readings are parsed and weighed to pick the most likely
timestamp.

Examples:
  trailcam-ocr extract --image-folder ./frames --output-csv ./timestamps.csv
  trailcam-ocr image ./frames/RCNX0001.png --candidates
  trailcam-ocr parse "2024-08-01 06:31:27"
  trailcam-ocr split --input timestamps.csv --output timestamps_split.csv
  trailcam-ocr frames --folder ./clips
  trailcam-ocr scan --folder ./clips --output date_time_original.csv
  trailcam-ocr serve`,
		Version:       a.build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is trailcam-ocr.yaml in ., $XDG_CONFIG_HOME/trailcam-ocr, /etc/trailcam-ocr)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading TRAILCAM_* variables")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")

	root.AddCommand(
		newExtractCommand(a),
		newImageCommand(a),
		newParseCommand(a),
		newBandCommand(a),
		newScanCommand(a),
		newSplitCommand(a),
		newCombineCommand(a),
		newFramesCommand(a),
		newServeCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration and configures logging. Logs go to stderr
// because stdout carries results and the MCP protocol.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = a.loader.BindFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := a.loader.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg

	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(cfg.LogLevel())
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}
	if cfg.Log.Format == "json" {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if used := a.loader.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("configuration loaded")
	}
	return nil
}

// openRecognizer returns the OCR engine and its close function.
func (a *app) openRecognizer() (ocr.Recognizer, func() error, error) {
	rec, closeFn, err := a.recognizer(a.cfg.EngineConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start OCR engine: %w", err)
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return rec, closeFn, nil
}

func (a *app) closeQuietly(closeFn func() error) {
	if err := closeFn(); err != nil {
		a.log.WithError(err).Warn("failed to close OCR engine")
	}
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
