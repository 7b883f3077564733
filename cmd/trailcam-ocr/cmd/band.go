package cmd

import (
	"image"

	diskimaging "github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/imaging"
)

func newBandCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "band FILE",
		Short: "Locate the overlay banner of an image",
		Long: `Print the rows of the dark overlay banner and, with --out, save the banner
crop with the ROI boundaries drawn in debug.overlay_color.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := imaging.LoadFile(args[0])
			if err != nil {
				return err
			}
			opts := a.cfg.RecognizeOptions()
			gray := imaging.ToGray(frame)
			band := imaging.LocateBand(gray, opts.Band)

			w := cmd.OutOrStdout()
			printf(w, "Frame:    %dx%d\n", gray.Bounds().Dx(), gray.Bounds().Dy())
			printf(w, "Band:     rows %d-%d (%d rows)\n", band.Y0, band.Y1, band.Height())
			printf(w, "Detected: %t\n", band.Detected)
			stats := imaging.DescribeBand(gray, band, 3)
			printf(w, "Contrast: %.1f (band mean %.1f, below %.1f)\n", stats.Contrast, stats.BandMean, stats.BelowMean)
			for _, c := range stats.Colors {
				printf(w, "Color:    %s %.1f%%\n", c.Hex, c.Percent)
			}

			rois := imaging.MakeROIs(imaging.CropRows(gray, band), opts.ROIs)
			for _, r := range rois {
				printf(w, "ROI %-8s columns %d-%d\n", r.Tag, r.X0, r.X1)
			}
			if out == "" {
				return nil
			}

			annotated, err := imaging.Overlay(frame, band, rois, opts.OverlayColor)
			if err != nil {
				return err
			}
			b := annotated.Bounds()
			crop := annotated.SubImage(image.Rect(b.Min.X, b.Min.Y+band.Y0, b.Max.X, b.Min.Y+band.Y1))
			if err := diskimaging.Save(crop, out); err != nil {
				return err
			}
			printf(w, "Saved:    %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "save the annotated banner crop to this file")
	return cmd
}
