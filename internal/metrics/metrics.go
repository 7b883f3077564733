// Package metrics counts recognition outcomes in a Prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Image statuses.
const (
	StatusRecognized   = "recognized"
	StatusUnrecognized = "unrecognized"
	StatusUnreadable   = "unreadable"
)

// Candidate outcomes.
const (
	OutcomeParsed   = "parsed"
	OutcomeUnparsed = "unparsed"
	OutcomeOCRError = "ocr_error"
)

// Recorder owns a private registry. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	images        *prometheus.CounterVec
	candidates    *prometheus.CounterVec
	decisions     *prometheus.CounterVec
	ocrDuration   prometheus.Histogram
	imageDuration prometheus.Histogram
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		images: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailcam_images_total",
				Help: "Total number of images processed",
			},
			[]string{"status"}, // recognized, unrecognized, unreadable
		),
		candidates: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailcam_candidates_total",
				Help: "Total number of OCR readings by outcome",
			},
			[]string{"outcome"}, // parsed, unparsed, ocr_error
		),
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailcam_selection_tier_total",
				Help: "Total number of selections by the tier that decided them",
			},
			[]string{"tier"},
		),
		ocrDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trailcam_ocr_duration_seconds",
				Help:    "Duration of a single OCR call in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		imageDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trailcam_image_duration_seconds",
				Help:    "Duration of recognizing one image in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 25},
			},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Image records one finished image.
func (r *Recorder) Image(status string, d time.Duration) {
	if r == nil {
		return
	}
	r.images.WithLabelValues(status).Inc()
	r.imageDuration.Observe(d.Seconds())
}

// Candidate records one OCR reading.
func (r *Recorder) Candidate(outcome string) {
	if r == nil {
		return
	}
	r.candidates.WithLabelValues(outcome).Inc()
}

// Decision records the tier that produced a result.
func (r *Recorder) Decision(tier string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(tier).Inc()
}

// OCR records the duration of one OCR call.
func (r *Recorder) OCR(d time.Duration) {
	if r == nil {
		return
	}
	r.ocrDuration.Observe(d.Seconds())
}

// WriteFile writes the registry in the Prometheus text format, suitable for
// the node exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
