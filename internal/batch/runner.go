package batch

import (
	"context"
	"io"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/trailcam-ocr/internal/recognize"
	"github.com/ironsheep/trailcam-ocr/internal/vote"
)

// FileRecognizer recognizes one image file. *recognize.Engine implements it.
type FileRecognizer interface {
	RecognizeFile(ctx context.Context, path string) recognize.Result
}

// Runner processes many images concurrently.
type Runner struct {
	rec     FileRecognizer
	workers int
	log     logrus.FieldLogger
}

// Report is the outcome of one run.
type Report struct {
	RunID      string             `json:"run_id"`
	Folder     string             `json:"folder,omitempty"`
	Started    time.Time          `json:"started"`
	Duration   time.Duration      `json:"duration_ns"`
	Total      int                `json:"total"`
	Recognized int                `json:"recognized"`
	Results    []recognize.Result `json:"results"`
}

// NewRunner creates a runner with the given worker count. A count below one
// uses the number of CPUs.
func NewRunner(rec FileRecognizer, workers int, log logrus.FieldLogger) *Runner {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Runner{rec: rec, workers: workers, log: log}
}

// Workers returns the concurrency limit.
func (r *Runner) Workers() int {
	return r.workers
}

// Run recognizes every path and returns the results in input order. The
// only error it returns is ctx's; per-image failures live in Result.Err.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	rep := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Total:   len(paths),
		Results: make([]recognize.Result, len(paths)),
	}
	log := r.log.WithField("run_id", rep.RunID)
	log.WithFields(logrus.Fields{"images": len(paths), "workers": r.workers}).Info("batch started")

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.rec.RecognizeFile(gctx, path)
			rep.Results[i] = res
			n := done.Add(1)
			log.WithFields(logrus.Fields{
				"progress":  n,
				"of":        len(paths),
				"file":      res.File,
				"timestamp": res.Canonical(),
			}).Info("processed")
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	rep.Duration = time.Since(rep.Started)
	for i, res := range rep.Results {
		if res.File == "" {
			// never started
			rep.Results[i] = recognize.Result{
				File: filepath.Base(paths[i]),
				Path: paths[i],
				Tier: vote.TierNone,
				Err:  err,
			}
			continue
		}
		if res.Recognized() {
			rep.Recognized++
		}
	}
	log.WithFields(logrus.Fields{
		"recognized": rep.Recognized,
		"total":      rep.Total,
		"elapsed":    rep.Duration.Round(time.Millisecond),
	}).Info("batch finished")
	return rep, err
}
