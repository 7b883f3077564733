package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/metrics"
	"github.com/ironsheep/trailcam-ocr/internal/report"
)

func newImageCommand(a *app) *cobra.Command {
	var (
		candidates bool
		format     string
	)
	cmd := &cobra.Command{
		Use:   "image FILE",
		Short: "Recognize the timestamp of one image",
		Example: `  trailcam-ocr image RCNX0001.png
  trailcam-ocr image RCNX0001.png --candidates
  trailcam-ocr image RCNX0001.png --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImage(cmd, args[0], candidates, format)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&candidates, "candidates", false, "print every OCR candidate")
	f.StringVar(&format, "format", "text", "output format (text, json)")
	f.Bool("save-debug", false, "save band crop, candidate log and overlay")
	f.String("debug-dir", "", "debug output folder (default <image folder>/_ocr_debug)")
	f.Float64("elite-margin", 0.8, "lead the top candidate needs to skip voting")
	f.String("lang", "eng", "Tesseract language")
	f.String("tessdata", "", "Tesseract tessdata directory")
	return cmd
}

func (a *app) runImage(cmd *cobra.Command, path string, candidates bool, format string) error {
	rec, closeFn, err := a.openRecognizer()
	if err != nil {
		return err
	}
	defer a.closeQuietly(closeFn)

	res := a.newEngine(rec, filepath.Dir(path), metrics.New()).RecognizeFile(cmd.Context(), path)
	if res.Err != nil {
		return res.Err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		entry := struct {
			report.Entry
			Candidates []string `json:"candidates,omitempty"`
		}{Entry: report.NewEntry(res)}
		if candidates {
			entry.Candidates = res.LogLines()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}
	if format != "text" {
		return fmt.Errorf("unsupported format %q (use text or json)", format)
	}

	ts := res.Canonical()
	if ts == "" {
		ts = report.NotFound
	}
	printf(out, "File:      %s\n", res.File)
	printf(out, "Timestamp: %s\n", ts)
	printf(out, "Raw OCR:   %s\n", res.Raw)
	printf(out, "Tier:      %s\n", res.Tier)
	if res.Winner != "" {
		printf(out, "Winner:    %s\n", res.Winner)
	}
	printf(out, "Band:      rows %d-%d (detected: %t)\n", res.Band.Y0, res.Band.Y1, res.Band.Detected)
	if candidates {
		printf(out, "\nCandidates:\n")
		for _, line := range res.LogLines() {
			printf(out, "  %s\n", line)
		}
	}
	return nil
}
