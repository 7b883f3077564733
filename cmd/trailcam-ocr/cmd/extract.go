package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/batch"
	"github.com/ironsheep/trailcam-ocr/internal/metrics"
	"github.com/ironsheep/trailcam-ocr/internal/report"
)

func newExtractCommand(a *app) *cobra.Command {
	var (
		folder string
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recognize every image in a folder and write a timestamp CSV",
		Long: `Recognize the overlay timestamp of every image directly inside a folder
(sorted by name) and write one row per image:

  file,timestamp,raw_ocr

The timestamp cell is written as ="YYYY-MM-DD HH:MM:SS" so spreadsheets keep it
as text (disable with --excel-quote=false) and is empty when no timestamp was
recognized. --split adds Date and Time columns.

Examples:
  trailcam-ocr extract --image-folder ./frames --output-csv ./timestamps.csv
  trailcam-ocr extract --image-folder ./frames --output-csv ./out.csv --save-debug
  trailcam-ocr extract --image-folder ./frames --output-csv ./out.json --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, folder, output, format)
		},
	}

	f := cmd.Flags()
	f.StringVar(&folder, "image-folder", "", "folder containing the frames")
	f.StringVar(&output, "output-csv", "", "output file")
	f.StringVar(&format, "format", "csv", "output format (csv, json)")
	f.Bool("save-debug", false, "save band crops, candidate logs and overlays")
	f.String("debug-dir", "", "debug output folder (default <image-folder>/_ocr_debug)")
	f.Float64("elite-margin", 0.8, "lead the top candidate needs to skip voting")
	f.Bool("split", false, "add Date and Time columns")
	f.Bool("excel-quote", true, `write the timestamp as ="..."`)
	f.Int("workers", 0, "images processed concurrently (0 = one per CPU)")
	f.String("metrics-file", "", "write Prometheus metrics to this file after the run")
	f.String("lang", "eng", "Tesseract language")
	f.String("tessdata", "", "Tesseract tessdata directory")
	_ = cmd.MarkFlagRequired("image-folder")
	_ = cmd.MarkFlagRequired("output-csv")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, folder, output, format string) error {
	if format != "csv" && format != "json" {
		return fmt.Errorf("unsupported format %q (use csv or json)", format)
	}
	log := a.log.WithField("folder", folder)

	paths, err := batch.ListImages(folder, a.cfg.Batch.Extensions)
	if errors.Is(err, batch.ErrNoImages) {
		log.Warn("no images found")
		return nil
	}
	if err != nil {
		return err
	}

	rec, closeFn, err := a.openRecognizer()
	if err != nil {
		return err
	}
	defer a.closeQuietly(closeFn)

	m := metrics.New()
	engine := a.newEngine(rec, folder, m)
	rep, runErr := batch.NewRunner(engine, a.cfg.Batch.Workers, a.log).Run(cmd.Context(), paths)
	rep.Folder = folder

	if format == "json" {
		err = report.WriteJSONFile(output, rep)
	} else {
		err = report.WriteCSVFile(output, rep.Results, a.cfg.CSVOptions())
	}
	if err != nil {
		return err
	}
	if a.cfg.Metrics.File != "" {
		if err := m.WriteFile(a.cfg.Metrics.File); err != nil {
			log.WithError(err).Warn("failed to write metrics")
		}
	}

	out := cmd.OutOrStdout()
	printf(out, "Recognized %d/%d images\n", rep.Recognized, rep.Total)
	printf(out, "Saved: %s\n", output)
	return runErr
}
