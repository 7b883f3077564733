package recognize

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/trailcam-ocr/internal/imaging"
	"github.com/ironsheep/trailcam-ocr/internal/metrics"
	"github.com/ironsheep/trailcam-ocr/internal/ocr"
	"github.com/ironsheep/trailcam-ocr/internal/timestamp"
	"github.com/ironsheep/trailcam-ocr/internal/vote"
)

// Options are the tunable tables and thresholds of the pipeline.
type Options struct {
	Band     imaging.BandOptions
	ROIs     []imaging.ROISpec
	Variants imaging.VariantOptions
	Weights  vote.Weights
	Policy   vote.Policy
	// OverlayColor is used for the annotated debug frame.
	OverlayColor string
}

// DefaultOptions returns the calibrated pipeline settings.
func DefaultOptions() Options {
	return Options{
		Band:         imaging.DefaultBandOptions(),
		ROIs:         imaging.DefaultROIs(),
		Variants:     imaging.DefaultVariantOptions(),
		Weights:      vote.DefaultWeights(),
		Policy:       vote.DefaultPolicy(),
		OverlayColor: imaging.DefaultOverlayColor,
	}
}

// Engine recognizes overlay timestamps. It holds no per-image state and is
// safe for concurrent use when its Recognizer is.
type Engine struct {
	opts    Options
	ocr     ocr.Recognizer
	parser  *timestamp.Parser
	debug   DebugSink
	metrics *metrics.Recorder
	log     logrus.FieldLogger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithDebugSink captures intermediate artifacts.
func WithDebugSink(s DebugSink) Option {
	return func(e *Engine) {
		if s != nil {
			e.debug = s
		}
	}
}

// WithMetrics records outcomes in m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithParser replaces the default parsing cascade.
func WithParser(p *timestamp.Parser) Option {
	return func(e *Engine) {
		if p != nil {
			e.parser = p
		}
	}
}

// New creates an Engine around rec.
func New(rec ocr.Recognizer, opts Options, options ...Option) *Engine {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Engine{
		opts:   opts,
		ocr:    rec,
		parser: timestamp.DefaultParser(),
		debug:  NopSink{},
		log:    discard,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// Options returns the engine settings.
func (e *Engine) Options() Options {
	return e.opts
}

// Parser returns the parsing cascade in use.
func (e *Engine) Parser() *timestamp.Parser {
	return e.parser
}

// RecognizeFile decodes path and recognizes it. A file that cannot be
// decoded yields an unrecognized Result whose Err wraps ErrDecode.
func (e *Engine) RecognizeFile(ctx context.Context, path string) Result {
	img, err := imaging.LoadFile(path)
	if err != nil {
		e.metrics.Image(metrics.StatusUnreadable, 0)
		e.log.WithFields(logrus.Fields{"file": filepath.Base(path), "error": err}).Warn("unreadable image")
		return Result{
			File: filepath.Base(path),
			Path: path,
			Tier: vote.TierNone,
			Err:  fmt.Errorf("%w: %v", ErrDecode, err),
		}
	}
	res := e.RecognizeImage(ctx, filepath.Base(path), img)
	res.Path = path
	return res
}

// RecognizeImage runs the pipeline on an already decoded frame. name is
// used for logging and debug artifact names.
func (e *Engine) RecognizeImage(ctx context.Context, name string, img image.Image) Result {
	start := time.Now()
	base := strings.TrimSuffix(name, filepath.Ext(name))
	log := e.log.WithField("file", name)

	gray := imaging.ToGray(img)
	band := imaging.LocateBand(gray, e.opts.Band)
	bandImg := imaging.CropRows(gray, band)
	rois := imaging.MakeROIs(bandImg, e.opts.ROIs)
	log.WithFields(logrus.Fields{"y0": band.Y0, "y1": band.Y1, "detected": band.Detected}).Debug("band located")

	res := Result{File: name, Band: band, Tier: vote.TierNone}
	cands, err := e.collect(ctx, rois, log)
	res.Candidates = cands

	e.capture(base, log, func() error { return e.debug.Band(base, bandImg) })
	e.capture(base, log, func() error { return e.debug.Candidates(base, res.LogLines()) })
	e.capture(base, log, func() error {
		ov, err := imaging.Overlay(img, band, rois, e.opts.OverlayColor)
		if err != nil {
			return err
		}
		return e.debug.Overlay(base, ov)
	})

	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		log.WithError(err).Warn("recognition interrupted")
		return res
	}

	d := e.opts.Policy.Select(cands)
	res.Tier = d.Tier
	res.Raw = d.Raw()
	if d.OK {
		ts := d.Timestamp
		res.Timestamp = &ts
		res.Winner = d.Winner.Tag()
		e.capture(base, log, func() error { return e.debug.Winner(base, *d.Winner) })
	}
	res.Duration = time.Since(start)

	status := metrics.StatusUnrecognized
	if res.Recognized() {
		status = metrics.StatusRecognized
		e.metrics.Decision(string(d.Tier))
	}
	e.metrics.Image(status, res.Duration)
	log.WithFields(logrus.Fields{
		"timestamp": res.Canonical(),
		"tier":      res.Tier,
		"winner":    res.Winner,
		"elapsed":   res.Duration.Round(time.Millisecond),
	}).Info("image processed")
	return res
}

// collect OCRs every variant of every ROI in generation order. OCR failures
// and unparseable text become unparsed candidates; only cancellation aborts.
func (e *Engine) collect(ctx context.Context, rois []imaging.ROI, log logrus.FieldLogger) ([]vote.Candidate, error) {
	var cands []vote.Candidate
	for _, roi := range rois {
		for _, v := range imaging.MakeVariants(roi.Image, e.opts.Variants) {
			if err := ctx.Err(); err != nil {
				return cands, err
			}
			c := vote.Candidate{ROI: roi.Tag, Variant: v.Tag, Image: v.Image}

			raw, err := e.read(ctx, v.Image)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return cands, ctxErr
				}
				e.metrics.Candidate(metrics.OutcomeOCRError)
				log.WithFields(logrus.Fields{"candidate": c.Tag(), "error": err}).Warn("ocr failed")
				cands = append(cands, c)
				continue
			}
			c.Raw = raw

			if m, ok := e.parser.Explain(raw); ok {
				c.Parsed = true
				c.Timestamp = m.Timestamp
				c.Canonical = m.Timestamp.Canonical()
				c.Strategy = m.Strategy
				c.Weight = e.opts.Weights.Weight(roi.Tag, v.Tag, raw)
				e.metrics.Candidate(metrics.OutcomeParsed)
			} else {
				e.metrics.Candidate(metrics.OutcomeUnparsed)
			}
			log.Debug(c.LogLine())
			cands = append(cands, c)
		}
	}
	return cands, nil
}

func (e *Engine) read(ctx context.Context, img *image.Gray) (string, error) {
	if img.Bounds().Empty() {
		return "", nil
	}
	start := time.Now()
	raw, err := e.ocr.Recognize(ctx, img)
	e.metrics.OCR(time.Since(start))
	if err != nil {
		return "", err
	}
	return ocr.Clean(raw), nil
}

func (e *Engine) capture(base string, log logrus.FieldLogger, fn func() error) {
	if _, off := e.debug.(NopSink); off {
		return
	}
	if err := fn(); err != nil {
		log.WithFields(logrus.Fields{"base": base, "error": err}).Warn("debug capture failed")
	}
}
